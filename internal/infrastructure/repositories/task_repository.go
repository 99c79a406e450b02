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

type taskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) domain.TaskRepository {
	return &taskRepository{db: db}
}

func (r *taskRepository) Create(ctx context.Context, task *entities.ScheduledTask) error {
	return r.db.WithContext(ctx).Create(task).Error
}

func (r *taskRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.ScheduledTask, error) {
	var task entities.ScheduledTask
	if err := r.db.WithContext(ctx).First(&task, "task_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound(err).Msg("Task not found")
		}
		return nil, err
	}
	return &task, nil
}

func (r *taskRepository) ClaimDue(ctx context.Context, now time.Time, limit int) ([]entities.ScheduledTask, error) {
	var candidates []entities.ScheduledTask
	err := r.db.WithContext(ctx).
		Where("status = ? AND execute_at <= ?", constants.TaskStatusPending, now).
		Order("execute_at ASC").
		Limit(limit).
		Find(&candidates).Error
	if err != nil {
		return nil, err
	}

	// Conditional per-row claim; a row claimed elsewhere is simply skipped.
	claimed := make([]entities.ScheduledTask, 0, len(candidates))
	for _, task := range candidates {
		res := r.db.WithContext(ctx).
			Model(&entities.ScheduledTask{}).
			Where("task_id = ? AND status = ?", task.TaskID, constants.TaskStatusPending).
			Updates(map[string]interface{}{
				"status":     constants.TaskStatusQueued,
				"updated_at": time.Now(),
			})
		if res.Error != nil {
			return claimed, res.Error
		}
		if res.RowsAffected > 0 {
			task.Status = constants.TaskStatusQueued
			claimed = append(claimed, task)
		}
	}
	return claimed, nil
}

func (r *taskRepository) MarkRunning(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&entities.ScheduledTask{}).
		Where("task_id = ? AND status = ?", id, constants.TaskStatusQueued).
		Updates(map[string]interface{}{
			"status":     constants.TaskStatusRunning,
			"updated_at": time.Now(),
		})
	return res.RowsAffected > 0, res.Error
}

func (r *taskRepository) MarkCompleted(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&entities.ScheduledTask{}).
		Where("task_id = ?", id).
		Updates(map[string]interface{}{
			"status":     constants.TaskStatusCompleted,
			"updated_at": time.Now(),
		}).Error
}

func (r *taskRepository) MarkFailed(ctx context.Context, id uuid.UUID, lastError string) error {
	return r.db.WithContext(ctx).
		Model(&entities.ScheduledTask{}).
		Where("task_id = ?", id).
		Updates(map[string]interface{}{
			"status":     constants.TaskStatusFailed,
			"last_error": lastError,
			"updated_at": time.Now(),
		}).Error
}

func (r *taskRepository) Reschedule(ctx context.Context, id uuid.UUID, at time.Time, attempts int, lastError string) error {
	return r.db.WithContext(ctx).
		Model(&entities.ScheduledTask{}).
		Where("task_id = ?", id).
		Updates(map[string]interface{}{
			"status":     constants.TaskStatusPending,
			"execute_at": at,
			"attempts":   attempts,
			"last_error": lastError,
			"updated_at": time.Now(),
		}).Error
}

func (r *taskRepository) CancelPending(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&entities.ScheduledTask{}).
		Where("task_id = ? AND status = ?", id, constants.TaskStatusPending).
		Updates(map[string]interface{}{
			"status":     constants.TaskStatusCancelled,
			"updated_at": time.Now(),
		})
	return res.RowsAffected > 0, res.Error
}
