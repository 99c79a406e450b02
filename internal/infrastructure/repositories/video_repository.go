package repositories

import (
	"context"
	"errors"
	"time"

	"video-scheduler/internal/domain/entities"
	domain "video-scheduler/internal/domain/repositories"
	"video-scheduler/pkg/constants"
	apperrors "video-scheduler/pkg/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type videoRepository struct {
	db *gorm.DB
}

func NewVideoRepository(db *gorm.DB) domain.VideoRepository {
	return &videoRepository{db: db}
}

func (r *videoRepository) Create(ctx context.Context, video *entities.Video) error {
	return r.db.WithContext(ctx).Create(video).Error
}

func (r *videoRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Video, error) {
	var video entities.Video
	if err := r.db.WithContext(ctx).First(&video, "video_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound(err).Msg("Video not found")
		}
		return nil, err
	}
	return &video, nil
}

func (r *videoRepository) GetForUser(ctx context.Context, id uuid.UUID, userID string) (*entities.Video, error) {
	var video entities.Video
	err := r.db.WithContext(ctx).
		First(&video, "video_id = ? AND user_id = ?", id, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound(err).Msg("Video not found")
		}
		return nil, err
	}
	return &video, nil
}

func (r *videoRepository) List(ctx context.Context, userID, status string, offset, limit int) ([]entities.Video, error) {
	var videos []entities.Video
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&videos).Error
	return videos, err
}

func (r *videoRepository) ListScheduled(ctx context.Context, userID string) ([]entities.Video, error) {
	var videos []entities.Video
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND (schedule_upload_scheduled_at IS NOT NULL OR schedule_delete_scheduled_at IS NOT NULL)", userID).
		Order("created_at DESC").
		Find(&videos).Error
	return videos, err
}

func (r *videoRepository) FindOverdueDeletes(ctx context.Context, now time.Time) ([]entities.Video, error) {
	var videos []entities.Video
	err := r.db.WithContext(ctx).
		Where("status = ? AND schedule_delete_scheduled_at IS NOT NULL AND schedule_delete_scheduled_at <= ? AND schedule_remote_video_id <> ''",
			constants.VideoStatusPublished, now).
		Find(&videos).Error
	return videos, err
}

// UpdateWithVersion is the single-writer discipline: the row is written only
// if nobody bumped the version since this copy was read.
func (r *videoRepository) UpdateWithVersion(ctx context.Context, video *entities.Video) error {
	currentVersion := video.Version
	video.Version = currentVersion + 1
	video.UpdatedAt = time.Now()

	res := r.db.WithContext(ctx).
		Model(&entities.Video{}).
		Where("video_id = ? AND version = ?", video.VideoID, currentVersion).
		Select("*").
		Omit("video_id", "created_at").
		Updates(video)
	if res.Error != nil {
		video.Version = currentVersion
		return res.Error
	}
	if res.RowsAffected == 0 {
		video.Version = currentVersion
		return apperrors.ErrConflict(nil)
	}
	return nil
}

func (r *videoRepository) CountByStatus(ctx context.Context, userID string) (map[string]int64, error) {
	type row struct {
		Status string
		Count  int64
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&entities.Video{}).
		Select("status, count(*) as count").
		Where("user_id = ?", userID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, nil
}

func (r *videoRepository) SumFileSize(ctx context.Context, userID string) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&entities.Video{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(file_size), 0)").
		Scan(&total).Error
	return total, err
}
