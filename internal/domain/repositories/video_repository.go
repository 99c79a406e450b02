package repositories

import (
	"context"
	"time"

	"video-scheduler/internal/domain/entities"

	"github.com/google/uuid"
)

type VideoRepository interface {
	Create(ctx context.Context, video *entities.Video) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Video, error)
	GetForUser(ctx context.Context, id uuid.UUID, userID string) (*entities.Video, error)
	// List returns the user's videos newest first; a non-empty status
	// restricts the result to that status.
	List(ctx context.Context, userID, status string, offset, limit int) ([]entities.Video, error)
	ListScheduled(ctx context.Context, userID string) ([]entities.Video, error)
	// FindOverdueDeletes returns published videos whose delete time has passed
	// and that still carry a remote video id.
	FindOverdueDeletes(ctx context.Context, now time.Time) ([]entities.Video, error)
	// UpdateWithVersion writes the video only if its stored version still
	// matches; a lost race surfaces as a conflict error.
	UpdateWithVersion(ctx context.Context, video *entities.Video) error
	CountByStatus(ctx context.Context, userID string) (map[string]int64, error)
	SumFileSize(ctx context.Context, userID string) (int64, error)
}
