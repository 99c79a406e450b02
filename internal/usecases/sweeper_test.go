package usecases

import (
	"context"
	"testing"
	"time"

	"video-scheduler/internal/domain/entities"
	"video-scheduler/internal/infrastructure/queue"
	infra_repo "video-scheduler/internal/infrastructure/repositories"
	"video-scheduler/pkg/constants"

	"github.com/google/uuid"
)

type sweeperFixture struct {
	videos  *infra_repo.InMemoryVideoRepository
	tasks   *infra_repo.InMemoryTaskRepository
	sweeper *SweeperService
	now     time.Time
}

func newSweeperFixture(t *testing.T) *sweeperFixture {
	t.Helper()
	f := &sweeperFixture{
		videos: infra_repo.NewInMemoryVideoRepository(),
		tasks:  infra_repo.NewInMemoryTaskRepository(),
		now:    time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	dispatcher := queue.NewDispatcher(f.tasks, queue.NewChannelTransport(10), time.Second, time.Minute, 3)
	dispatcher.SetClock(func() time.Time { return f.now })
	f.sweeper = NewSweeperService(f.videos, dispatcher)
	f.sweeper.SetClock(func() time.Time { return f.now })
	return f
}

func (f *sweeperFixture) addOverdueVideo(t *testing.T, deleteJobID string) uuid.UUID {
	t.Helper()
	overdueAt := f.now.Add(-time.Hour)
	video := &entities.Video{
		VideoID: uuid.New(),
		UserID:  "user-1",
		Title:   "clip",
		Status:  constants.VideoStatusPublished,
		Schedule: entities.Schedule{
			DeleteScheduledAt: &overdueAt,
			RemoteVideoID:     "yt-abc123",
			DeleteJobID:       deleteJobID,
		},
	}
	if err := f.videos.Create(context.Background(), video); err != nil {
		t.Fatalf("video setup failed: %v", err)
	}
	return video.VideoID
}

func TestSweepBooksTakedownForOverdueVideo(t *testing.T) {
	ctx := context.Background()
	f := newSweeperFixture(t)
	videoID := f.addOverdueVideo(t, "")

	booked, err := f.sweeper.SweepOverdueDeletes(ctx)
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if booked != 1 {
		t.Fatalf("expected 1 booked takedown, got %d", booked)
	}

	video, _ := f.videos.GetByID(ctx, videoID)
	if video.Schedule.DeleteJobID == "" {
		t.Fatal("sweep must record the booked task")
	}
	taskID, err := uuid.Parse(video.Schedule.DeleteJobID)
	if err != nil {
		t.Fatalf("bad task id recorded: %v", err)
	}
	task, err := f.tasks.GetByID(ctx, taskID)
	if err != nil {
		t.Fatalf("booked task missing: %v", err)
	}
	if task.Action != constants.ActionDelete {
		t.Fatalf("expected delete task, got %s", task.Action)
	}
}

func TestSweepIsIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newSweeperFixture(t)
	f.addOverdueVideo(t, "")

	if booked, _ := f.sweeper.SweepOverdueDeletes(ctx); booked != 1 {
		t.Fatalf("first sweep expected 1 booking, got %d", booked)
	}
	if booked, _ := f.sweeper.SweepOverdueDeletes(ctx); booked != 0 {
		t.Fatalf("second sweep must book nothing, got %d", booked)
	}
}

func TestSweepSkipsLiveTask(t *testing.T) {
	ctx := context.Background()
	f := newSweeperFixture(t)

	// A pending task already covers this video.
	task := &entities.ScheduledTask{
		TaskID:    uuid.New(),
		VideoID:   uuid.New(),
		Action:    constants.ActionDelete,
		ExecuteAt: f.now.Add(time.Minute),
		Status:    constants.TaskStatusPending,
	}
	if err := f.tasks.Create(ctx, task); err != nil {
		t.Fatalf("task setup failed: %v", err)
	}
	f.addOverdueVideo(t, task.TaskID.String())

	if booked, _ := f.sweeper.SweepOverdueDeletes(ctx); booked != 0 {
		t.Fatalf("sweep must not double-book a live task, got %d", booked)
	}
}

func TestSweepRebooksAfterTaskFailure(t *testing.T) {
	ctx := context.Background()
	f := newSweeperFixture(t)

	task := &entities.ScheduledTask{
		TaskID:    uuid.New(),
		VideoID:   uuid.New(),
		Action:    constants.ActionDelete,
		ExecuteAt: f.now.Add(-time.Hour),
		Status:    constants.TaskStatusFailed,
	}
	if err := f.tasks.Create(ctx, task); err != nil {
		t.Fatalf("task setup failed: %v", err)
	}
	videoID := f.addOverdueVideo(t, task.TaskID.String())

	booked, err := f.sweeper.SweepOverdueDeletes(ctx)
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if booked != 1 {
		t.Fatalf("expected a fresh booking for the failed task, got %d", booked)
	}

	video, _ := f.videos.GetByID(ctx, videoID)
	if video.Schedule.DeleteJobID == task.TaskID.String() {
		t.Fatal("sweep must point the video at the fresh task")
	}
}
