package repositories

import (
	"context"
	"sort"
	"sync"
	"time"

	"video-scheduler/internal/domain/entities"
	"video-scheduler/pkg/constants"
	apperrors "video-scheduler/pkg/errors"

	"github.com/google/uuid"
)

type InMemoryVideoRepository struct {
	mu   sync.RWMutex
	data map[uuid.UUID]*entities.Video
}

func NewInMemoryVideoRepository() *InMemoryVideoRepository {
	return &InMemoryVideoRepository{
		data: make(map[uuid.UUID]*entities.Video),
	}
}

func (r *InMemoryVideoRepository) Create(ctx context.Context, video *entities.Video) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *video
	r.data[video.VideoID] = &cp
	return nil
}

func (r *InMemoryVideoRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Video, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	video, ok := r.data[id]
	if !ok {
		return nil, apperrors.ErrNotFound(nil).Msg("Video not found")
	}
	cp := *video
	return &cp, nil
}

func (r *InMemoryVideoRepository) GetForUser(ctx context.Context, id uuid.UUID, userID string) (*entities.Video, error) {
	video, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if video.UserID != userID {
		return nil, apperrors.ErrNotFound(nil).Msg("Video not found")
	}
	return video, nil
}

func (r *InMemoryVideoRepository) List(ctx context.Context, userID, status string, offset, limit int) ([]entities.Video, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	videos := make([]entities.Video, 0)
	for _, v := range r.data {
		if v.UserID != userID {
			continue
		}
		if status != "" && v.Status != status {
			continue
		}
		videos = append(videos, *v)
	}
	sort.Slice(videos, func(i, j int) bool {
		return videos[i].CreatedAt.After(videos[j].CreatedAt)
	})

	if offset >= len(videos) {
		return []entities.Video{}, nil
	}
	end := offset + limit
	if limit <= 0 || end > len(videos) {
		end = len(videos)
	}
	return videos[offset:end], nil
}

func (r *InMemoryVideoRepository) ListScheduled(ctx context.Context, userID string) ([]entities.Video, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	videos := make([]entities.Video, 0)
	for _, v := range r.data {
		if v.UserID != userID {
			continue
		}
		if v.Schedule.UploadScheduledAt != nil || v.Schedule.DeleteScheduledAt != nil {
			videos = append(videos, *v)
		}
	}
	return videos, nil
}

func (r *InMemoryVideoRepository) FindOverdueDeletes(ctx context.Context, now time.Time) ([]entities.Video, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	videos := make([]entities.Video, 0)
	for _, v := range r.data {
		if v.Status != constants.VideoStatusPublished {
			continue
		}
		if v.Schedule.DeleteScheduledAt == nil || v.Schedule.DeleteScheduledAt.After(now) {
			continue
		}
		if v.Schedule.RemoteVideoID == "" {
			continue
		}
		videos = append(videos, *v)
	}
	return videos, nil
}

func (r *InMemoryVideoRepository) UpdateWithVersion(ctx context.Context, video *entities.Video) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.data[video.VideoID]
	if !ok {
		return apperrors.ErrNotFound(nil).Msg("Video not found")
	}
	if current.Version != video.Version {
		return apperrors.ErrConflict(nil)
	}
	video.Version++
	video.UpdatedAt = time.Now()
	cp := *video
	r.data[video.VideoID] = &cp
	return nil
}

func (r *InMemoryVideoRepository) CountByStatus(ctx context.Context, userID string) (map[string]int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := make(map[string]int64)
	for _, v := range r.data {
		if v.UserID == userID {
			counts[v.Status]++
		}
	}
	return counts, nil
}

func (r *InMemoryVideoRepository) SumFileSize(ctx context.Context, userID string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var total int64
	for _, v := range r.data {
		if v.UserID == userID {
			total += v.FileSize
		}
	}
	return total, nil
}
