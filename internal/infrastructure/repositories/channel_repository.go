package repositories

import (
	"context"
	"errors"
	"time"

	"video-scheduler/internal/domain/entities"
	domain "video-scheduler/internal/domain/repositories"
	apperrors "video-scheduler/pkg/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type channelRepository struct {
	db *gorm.DB
}

func NewChannelRepository(db *gorm.DB) domain.ChannelRepository {
	return &channelRepository{db: db}
}

func (r *channelRepository) Upsert(ctx context.Context, channel *entities.Channel) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Only one active row per (user, remote channel id).
		err := tx.Model(&entities.Channel{}).
			Where("user_id = ? AND remote_channel_id = ? AND is_active = ?",
				channel.UserID, channel.RemoteChannelID, true).
			Update("is_active", false).Error
		if err != nil {
			return err
		}
		return tx.Create(channel).Error
	})
}

func (r *channelRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Channel, error) {
	var channel entities.Channel
	if err := r.db.WithContext(ctx).First(&channel, "channel_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound(err).Msg("Channel not found")
		}
		return nil, err
	}
	return &channel, nil
}

func (r *channelRepository) GetActiveByID(ctx context.Context, id uuid.UUID) (*entities.Channel, error) {
	var channel entities.Channel
	err := r.db.WithContext(ctx).
		First(&channel, "channel_id = ? AND is_active = ?", id, true).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound(err).Msg("Channel not connected")
		}
		return nil, err
	}
	return &channel, nil
}

func (r *channelRepository) ListByUser(ctx context.Context, userID string) ([]entities.Channel, error) {
	var channels []entities.Channel
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_active = ?", userID, true).
		Order("created_at DESC").
		Find(&channels).Error
	return channels, err
}

func (r *channelRepository) UpdateTokens(ctx context.Context, id uuid.UUID, accessToken, refreshToken string, expiresAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&entities.Channel{}).
		Where("channel_id = ?", id).
		Updates(map[string]interface{}{
			"access_token":     accessToken,
			"refresh_token":    refreshToken,
			"token_expires_at": expiresAt,
			"updated_at":       time.Now(),
		}).Error
}

func (r *channelRepository) Deactivate(ctx context.Context, id uuid.UUID, userID string) error {
	res := r.db.WithContext(ctx).
		Model(&entities.Channel{}).
		Where("channel_id = ? AND user_id = ?", id, userID).
		Update("is_active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrNotFound(nil).Msg("Channel not found")
	}
	return nil
}
