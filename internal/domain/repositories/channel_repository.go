package repositories

import (
	"context"
	"time"

	"video-scheduler/internal/domain/entities"

	"github.com/google/uuid"
)

type ChannelRepository interface {
	// Upsert stores a freshly connected channel. Any other active row for the
	// same (user, remote channel id) pair is deactivated first so at most one
	// stays active.
	Upsert(ctx context.Context, channel *entities.Channel) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Channel, error)
	GetActiveByID(ctx context.Context, id uuid.UUID) (*entities.Channel, error)
	ListByUser(ctx context.Context, userID string) ([]entities.Channel, error)
	UpdateTokens(ctx context.Context, id uuid.UUID, accessToken, refreshToken string, expiresAt time.Time) error
	// Deactivate is the soft disconnect; rows are never hard-deleted.
	Deactivate(ctx context.Context, id uuid.UUID, userID string) error
}
