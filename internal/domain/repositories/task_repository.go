package repositories

import (
	"context"
	"time"

	"video-scheduler/internal/domain/entities"

	"github.com/google/uuid"
)

type TaskRepository interface {
	Create(ctx context.Context, task *entities.ScheduledTask) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.ScheduledTask, error)
	// ClaimDue atomically moves due pending tasks to queued and returns them.
	// A task is handed out at most once per claim.
	ClaimDue(ctx context.Context, now time.Time, limit int) ([]entities.ScheduledTask, error)
	// MarkRunning succeeds only from queued; false means another worker (or a
	// cancel) got there first.
	MarkRunning(ctx context.Context, id uuid.UUID) (bool, error)
	MarkCompleted(ctx context.Context, id uuid.UUID) error
	MarkFailed(ctx context.Context, id uuid.UUID, lastError string) error
	// Reschedule puts the task back to pending with a new execution time and
	// the updated attempt counter.
	Reschedule(ctx context.Context, id uuid.UUID, at time.Time, attempts int, lastError string) error
	// CancelPending succeeds only while the task has not been handed to a
	// worker; false means too late or unknown id.
	CancelPending(ctx context.Context, id uuid.UUID) (bool, error)
}
