package queue

import (
	"context"
	"log"
	"time"

	"video-scheduler/internal/domain/entities"
	domain "video-scheduler/internal/domain/repositories"
	"video-scheduler/pkg/constants"
	apperrors "video-scheduler/pkg/errors"

	"github.com/google/uuid"
)

const claimBatchSize = 50

// Outcome is a handler's verdict on one run. A nil Err means the task is
// done. Retry asks the dispatcher to spend another attempt; the dispatcher
// itself never inspects the error, classification belongs to the handler.
type Outcome struct {
	Retry bool
	Err   error
}

// Handler executes one action kind. Abandoned fires once, after the retry
// budget is exhausted, so the owner can record the terminal failure.
type Handler interface {
	Handle(ctx context.Context, job Job) Outcome
	Abandoned(ctx context.Context, job Job)
}

// Scheduler is the dispatcher surface the use cases depend on.
type Scheduler interface {
	Schedule(ctx context.Context, videoID uuid.UUID, action string, at time.Time) (uuid.UUID, error)
	// Cancel revokes a task that has not started running. Returns false when
	// the task already left the pending state.
	Cancel(ctx context.Context, taskID uuid.UUID) (bool, error)
	// Active reports whether the task is still on its way to execution.
	Active(ctx context.Context, taskID uuid.UUID) (bool, error)
}

type Dispatcher struct {
	tasks        domain.TaskRepository
	transport    Transport
	handlers     map[string]Handler
	pollInterval time.Duration
	retryBackoff time.Duration
	maxAttempts  int
	now          func() time.Time
}

func NewDispatcher(tasks domain.TaskRepository, transport Transport, pollInterval, retryBackoff time.Duration, maxAttempts int) *Dispatcher {
	return &Dispatcher{
		tasks:        tasks,
		transport:    transport,
		handlers:     make(map[string]Handler),
		pollInterval: pollInterval,
		retryBackoff: retryBackoff,
		maxAttempts:  maxAttempts,
		now:          time.Now,
	}
}

// SetClock overrides the dispatcher clock. Test seam only.
func (d *Dispatcher) SetClock(now func() time.Time) {
	d.now = now
}

func (d *Dispatcher) Register(action string, handler Handler) {
	d.handlers[action] = handler
}

func (d *Dispatcher) Schedule(ctx context.Context, videoID uuid.UUID, action string, at time.Time) (uuid.UUID, error) {
	task := &entities.ScheduledTask{
		TaskID:    uuid.New(),
		VideoID:   videoID,
		Action:    action,
		ExecuteAt: at,
		Status:    constants.TaskStatusPending,
	}
	if err := d.tasks.Create(ctx, task); err != nil {
		return uuid.Nil, apperrors.ErrInternal(err).Msg("Could not persist task")
	}
	return task.TaskID, nil
}

func (d *Dispatcher) Cancel(ctx context.Context, taskID uuid.UUID) (bool, error) {
	return d.tasks.CancelPending(ctx, taskID)
}

func (d *Dispatcher) Active(ctx context.Context, taskID uuid.UUID) (bool, error) {
	task, err := d.tasks.GetByID(ctx, taskID)
	if err != nil {
		if apperrors.HasCode(err, apperrors.CodeNotFound) {
			return false, nil
		}
		return false, err
	}
	switch task.Status {
	case constants.TaskStatusPending, constants.TaskStatusQueued, constants.TaskStatusRunning:
		return true, nil
	}
	return false, nil
}

// RunProducer polls for due tasks and pushes them onto the transport.
// Blocks until ctx is cancelled.
func (d *Dispatcher) RunProducer(ctx context.Context) {
	ticker := time.NewTicker(d.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := d.produceOnce(ctx); err != nil {
				log.Printf("Dispatcher: claim cycle failed: %v", err)
			}
		}
	}
}

func (d *Dispatcher) produceOnce(ctx context.Context) error {
	claimed, err := d.tasks.ClaimDue(ctx, d.now(), claimBatchSize)
	if err != nil {
		return err
	}

	for _, task := range claimed {
		payload, err := SerializeJob(Job{
			TaskID:   task.TaskID,
			VideoID:  task.VideoID,
			Action:   task.Action,
			Attempts: task.Attempts,
		})
		if err != nil {
			log.Printf("Dispatcher: task %s not serializable: %v", task.TaskID, err)
			continue
		}
		if err := d.transport.Push(ctx, payload); err != nil {
			// Put the claim back so the next cycle retries the push.
			log.Printf("Dispatcher: push failed for task %s: %v", task.TaskID, err)
			if rerr := d.tasks.Reschedule(ctx, task.TaskID, task.ExecuteAt, task.Attempts, task.LastError); rerr != nil {
				log.Printf("Dispatcher: could not requeue task %s: %v", task.TaskID, rerr)
			}
		}
	}
	return nil
}

// Process runs one popped job to completion, retry or terminal failure.
func (d *Dispatcher) Process(ctx context.Context, payload string) error {
	job, err := DeserializeJob(payload)
	if err != nil {
		return err
	}

	// A task cancelled between claim and pop never runs.
	started, err := d.tasks.MarkRunning(ctx, job.TaskID)
	if err != nil {
		return err
	}
	if !started {
		return nil
	}

	handler, ok := d.handlers[job.Action]
	if !ok {
		return d.tasks.MarkFailed(ctx, job.TaskID, "no handler for action "+job.Action)
	}

	outcome := handler.Handle(ctx, *job)
	if outcome.Err == nil {
		return d.tasks.MarkCompleted(ctx, job.TaskID)
	}

	if outcome.Retry {
		attempts := job.Attempts + 1
		if attempts < d.maxAttempts {
			return d.tasks.Reschedule(ctx, job.TaskID, d.now().Add(d.retryBackoff), attempts, outcome.Err.Error())
		}
		if err := d.tasks.MarkFailed(ctx, job.TaskID, outcome.Err.Error()); err != nil {
			return err
		}
		handler.Abandoned(ctx, *job)
		return nil
	}

	return d.tasks.MarkFailed(ctx, job.TaskID, outcome.Err.Error())
}
