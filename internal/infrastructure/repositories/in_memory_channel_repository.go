package repositories

import (
	"context"
	"sort"
	"sync"
	"time"

	"video-scheduler/internal/domain/entities"
	apperrors "video-scheduler/pkg/errors"

	"github.com/google/uuid"
)

type InMemoryChannelRepository struct {
	mu   sync.RWMutex
	data map[uuid.UUID]*entities.Channel
}

func NewInMemoryChannelRepository() *InMemoryChannelRepository {
	return &InMemoryChannelRepository{
		data: make(map[uuid.UUID]*entities.Channel),
	}
}

func (r *InMemoryChannelRepository) Upsert(ctx context.Context, channel *entities.Channel) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range r.data {
		if c.UserID == channel.UserID && c.RemoteChannelID == channel.RemoteChannelID && c.IsActive {
			c.IsActive = false
		}
	}
	cp := *channel
	r.data[channel.ChannelID] = &cp
	return nil
}

func (r *InMemoryChannelRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Channel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	channel, ok := r.data[id]
	if !ok {
		return nil, apperrors.ErrNotFound(nil).Msg("Channel not found")
	}
	cp := *channel
	return &cp, nil
}

func (r *InMemoryChannelRepository) GetActiveByID(ctx context.Context, id uuid.UUID) (*entities.Channel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	channel, ok := r.data[id]
	if !ok || !channel.IsActive {
		return nil, apperrors.ErrNotFound(nil).Msg("Channel not connected")
	}
	cp := *channel
	return &cp, nil
}

func (r *InMemoryChannelRepository) ListByUser(ctx context.Context, userID string) ([]entities.Channel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	channels := make([]entities.Channel, 0)
	for _, c := range r.data {
		if c.UserID == userID && c.IsActive {
			channels = append(channels, *c)
		}
	}
	sort.Slice(channels, func(i, j int) bool {
		return channels[i].CreatedAt.After(channels[j].CreatedAt)
	})
	return channels, nil
}

func (r *InMemoryChannelRepository) UpdateTokens(ctx context.Context, id uuid.UUID, accessToken, refreshToken string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	channel, ok := r.data[id]
	if !ok {
		return apperrors.ErrNotFound(nil).Msg("Channel not found")
	}
	channel.AccessToken = accessToken
	channel.RefreshToken = refreshToken
	channel.TokenExpiresAt = expiresAt
	channel.UpdatedAt = time.Now()
	return nil
}

func (r *InMemoryChannelRepository) Deactivate(ctx context.Context, id uuid.UUID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	channel, ok := r.data[id]
	if !ok || channel.UserID != userID {
		return apperrors.ErrNotFound(nil).Msg("Channel not found")
	}
	channel.IsActive = false
	channel.UpdatedAt = time.Now()
	return nil
}
