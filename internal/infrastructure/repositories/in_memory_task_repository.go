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

type InMemoryTaskRepository struct {
	mu   sync.Mutex
	data map[uuid.UUID]*entities.ScheduledTask
}

func NewInMemoryTaskRepository() *InMemoryTaskRepository {
	return &InMemoryTaskRepository{
		data: make(map[uuid.UUID]*entities.ScheduledTask),
	}
}

func (r *InMemoryTaskRepository) Create(ctx context.Context, task *entities.ScheduledTask) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if task.Status == "" {
		task.Status = constants.TaskStatusPending
	}
	cp := *task
	r.data[task.TaskID] = &cp
	return nil
}

func (r *InMemoryTaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.ScheduledTask, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	task, ok := r.data[id]
	if !ok {
		return nil, apperrors.ErrNotFound(nil).Msg("Task not found")
	}
	cp := *task
	return &cp, nil
}

func (r *InMemoryTaskRepository) ClaimDue(ctx context.Context, now time.Time, limit int) ([]entities.ScheduledTask, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	due := make([]*entities.ScheduledTask, 0)
	for _, t := range r.data {
		if t.Status == constants.TaskStatusPending && !t.ExecuteAt.After(now) {
			due = append(due, t)
		}
	}
	sort.Slice(due, func(i, j int) bool {
		return due[i].ExecuteAt.Before(due[j].ExecuteAt)
	})
	if limit > 0 && len(due) > limit {
		due = due[:limit]
	}

	claimed := make([]entities.ScheduledTask, 0, len(due))
	for _, t := range due {
		t.Status = constants.TaskStatusQueued
		t.UpdatedAt = time.Now()
		claimed = append(claimed, *t)
	}
	return claimed, nil
}

func (r *InMemoryTaskRepository) MarkRunning(ctx context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.data[id]
	if !ok || task.Status != constants.TaskStatusQueued {
		return false, nil
	}
	task.Status = constants.TaskStatusRunning
	task.UpdatedAt = time.Now()
	return true, nil
}

func (r *InMemoryTaskRepository) MarkCompleted(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.data[id]
	if !ok {
		return apperrors.ErrNotFound(nil).Msg("Task not found")
	}
	task.Status = constants.TaskStatusCompleted
	task.UpdatedAt = time.Now()
	return nil
}

func (r *InMemoryTaskRepository) MarkFailed(ctx context.Context, id uuid.UUID, lastError string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.data[id]
	if !ok {
		return apperrors.ErrNotFound(nil).Msg("Task not found")
	}
	task.Status = constants.TaskStatusFailed
	task.LastError = lastError
	task.UpdatedAt = time.Now()
	return nil
}

func (r *InMemoryTaskRepository) Reschedule(ctx context.Context, id uuid.UUID, at time.Time, attempts int, lastError string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.data[id]
	if !ok {
		return apperrors.ErrNotFound(nil).Msg("Task not found")
	}
	task.Status = constants.TaskStatusPending
	task.ExecuteAt = at
	task.Attempts = attempts
	task.LastError = lastError
	task.UpdatedAt = time.Now()
	return nil
}

func (r *InMemoryTaskRepository) CancelPending(ctx context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.data[id]
	if !ok || task.Status != constants.TaskStatusPending {
		return false, nil
	}
	task.Status = constants.TaskStatusCancelled
	task.UpdatedAt = time.Now()
	return true, nil
}
