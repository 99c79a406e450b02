package queue

import (
	"context"
	"errors"
	"testing"
	"time"

	"video-scheduler/internal/infrastructure/repositories"
	"video-scheduler/pkg/constants"

	"github.com/google/uuid"
)

type stubHandler struct {
	outcomes  []Outcome
	calls     int
	abandoned int
}

func (h *stubHandler) Handle(ctx context.Context, job Job) Outcome {
	h.calls++
	if len(h.outcomes) == 0 {
		return Outcome{}
	}
	out := h.outcomes[0]
	h.outcomes = h.outcomes[1:]
	return out
}

func (h *stubHandler) Abandoned(ctx context.Context, job Job) {
	h.abandoned++
}

func newTestDispatcher(handler Handler) (*Dispatcher, *repositories.InMemoryTaskRepository, *ChannelTransport) {
	tasks := repositories.NewInMemoryTaskRepository()
	transport := NewChannelTransport(10)
	d := NewDispatcher(tasks, transport, time.Second, time.Minute, 3)
	d.Register(constants.ActionUpload, handler)
	return d, tasks, transport
}

func TestProduceAndProcessCompletesTask(t *testing.T) {
	ctx := context.Background()
	handler := &stubHandler{}
	d, tasks, transport := newTestDispatcher(handler)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	d.SetClock(func() time.Time { return base })

	videoID := uuid.New()
	taskID, err := d.Schedule(ctx, videoID, constants.ActionUpload, base.Add(-time.Second))
	if err != nil {
		t.Fatalf("Schedule failed: %v", err)
	}

	if err := d.produceOnce(ctx); err != nil {
		t.Fatalf("produceOnce failed: %v", err)
	}

	payload, err := transport.Pop(ctx)
	if err != nil {
		t.Fatalf("Pop failed: %v", err)
	}
	if err := d.Process(ctx, payload); err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	if handler.calls != 1 {
		t.Fatalf("expected 1 handler call, got %d", handler.calls)
	}
	task, err := tasks.GetByID(ctx, taskID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if task.Status != constants.TaskStatusCompleted {
		t.Fatalf("expected completed, got %s", task.Status)
	}
}

func TestRetryBudgetExhaustionAbandonsTask(t *testing.T) {
	ctx := context.Background()
	handler := &stubHandler{outcomes: []Outcome{
		{Retry: true, Err: errors.New("remote down")},
		{Retry: true, Err: errors.New("remote down")},
		{Retry: true, Err: errors.New("remote down")},
	}}
	d, tasks, transport := newTestDispatcher(handler)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	d.SetClock(func() time.Time { return now })

	taskID, _ := d.Schedule(ctx, uuid.New(), constants.ActionUpload, now.Add(-time.Second))

	for i := 0; i < 3; i++ {
		if err := d.produceOnce(ctx); err != nil {
			t.Fatalf("produceOnce %d failed: %v", i, err)
		}
		payload, err := transport.Pop(ctx)
		if err != nil {
			t.Fatalf("Pop %d failed: %v", i, err)
		}
		if err := d.Process(ctx, payload); err != nil {
			t.Fatalf("Process %d failed: %v", i, err)
		}
		// Jump past the backoff so the rescheduled task is due again.
		now = now.Add(2 * time.Minute)
	}

	if handler.calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", handler.calls)
	}
	if handler.abandoned != 1 {
		t.Fatalf("expected 1 abandon callback, got %d", handler.abandoned)
	}
	task, _ := tasks.GetByID(ctx, taskID)
	if task.Status != constants.TaskStatusFailed {
		t.Fatalf("expected failed, got %s", task.Status)
	}
	if task.Attempts != 2 {
		t.Fatalf("expected 2 recorded reschedules, got %d", task.Attempts)
	}
}

func TestTerminalFailureDoesNotRetry(t *testing.T) {
	ctx := context.Background()
	handler := &stubHandler{outcomes: []Outcome{
		{Retry: false, Err: errors.New("quota exceeded")},
	}}
	d, tasks, transport := newTestDispatcher(handler)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	d.SetClock(func() time.Time { return now })

	taskID, _ := d.Schedule(ctx, uuid.New(), constants.ActionUpload, now.Add(-time.Second))
	d.produceOnce(ctx)
	payload, _ := transport.Pop(ctx)
	if err := d.Process(ctx, payload); err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	if handler.calls != 1 {
		t.Fatalf("expected 1 attempt, got %d", handler.calls)
	}
	if handler.abandoned != 0 {
		t.Fatalf("terminal failure must not fire the abandon callback")
	}
	task, _ := tasks.GetByID(ctx, taskID)
	if task.Status != constants.TaskStatusFailed {
		t.Fatalf("expected failed, got %s", task.Status)
	}
}

func TestCancelBeforeClaim(t *testing.T) {
	ctx := context.Background()
	handler := &stubHandler{}
	d, _, _ := newTestDispatcher(handler)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	d.SetClock(func() time.Time { return now })

	taskID, _ := d.Schedule(ctx, uuid.New(), constants.ActionUpload, now.Add(-time.Second))

	cancelled, err := d.Cancel(ctx, taskID)
	if err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}
	if !cancelled {
		t.Fatal("expected cancel to succeed on a pending task")
	}

	if err := d.produceOnce(ctx); err != nil {
		t.Fatalf("produceOnce failed: %v", err)
	}
	if handler.calls != 0 {
		t.Fatal("cancelled task must never reach the handler")
	}

	active, _ := d.Active(ctx, taskID)
	if active {
		t.Fatal("cancelled task must not report as active")
	}
}

func TestCancelAfterClaimIsTooLate(t *testing.T) {
	ctx := context.Background()
	d, _, _ := newTestDispatcher(&stubHandler{})

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	d.SetClock(func() time.Time { return now })

	taskID, _ := d.Schedule(ctx, uuid.New(), constants.ActionUpload, now.Add(-time.Second))
	d.produceOnce(ctx)

	cancelled, err := d.Cancel(ctx, taskID)
	if err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}
	if cancelled {
		t.Fatal("cancel must fail once the task is claimed")
	}
}

func TestProcessSkipsCancelledJob(t *testing.T) {
	ctx := context.Background()
	handler := &stubHandler{}
	d, tasks, _ := newTestDispatcher(handler)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	d.SetClock(func() time.Time { return now })

	taskID, _ := d.Schedule(ctx, uuid.New(), constants.ActionUpload, now.Add(-time.Second))
	tasks.CancelPending(ctx, taskID)

	payload, _ := SerializeJob(Job{TaskID: taskID, Action: constants.ActionUpload})
	if err := d.Process(ctx, payload); err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if handler.calls != 0 {
		t.Fatal("handler must not run for a cancelled task")
	}
}

func TestClaimDueHandsOutTaskOnce(t *testing.T) {
	ctx := context.Background()
	d, tasks, _ := newTestDispatcher(&stubHandler{})

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	d.SetClock(func() time.Time { return now })

	d.Schedule(ctx, uuid.New(), constants.ActionUpload, now.Add(-time.Second))

	first, err := tasks.ClaimDue(ctx, now, 10)
	if err != nil {
		t.Fatalf("ClaimDue failed: %v", err)
	}
	if len(first) != 1 {
		t.Fatalf("expected 1 claimed task, got %d", len(first))
	}

	second, err := tasks.ClaimDue(ctx, now, 10)
	if err != nil {
		t.Fatalf("second ClaimDue failed: %v", err)
	}
	if len(second) != 0 {
		t.Fatalf("task claimed twice, got %d extra", len(second))
	}
}
