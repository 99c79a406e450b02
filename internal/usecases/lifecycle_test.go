package usecases

import (
	"context"
	"testing"
	"time"

	"video-scheduler/internal/domain/dto"
	"video-scheduler/internal/domain/entities"
	domain "video-scheduler/internal/domain/repositories"
	"video-scheduler/internal/infrastructure/queue"
	infra_repo "video-scheduler/internal/infrastructure/repositories"
	"video-scheduler/pkg/constants"
	apperrors "video-scheduler/pkg/errors"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

type fakePlatform struct {
	uploadErrs  []error
	uploadCalls int
	deleteErrs  []error
	deleteCalls int
}

func (p *fakePlatform) Upload(ctx context.Context, filePath string, meta domain.UploadMetadata, creds entities.Credentials) (domain.UploadResult, error) {
	p.uploadCalls++
	if len(p.uploadErrs) > 0 {
		err := p.uploadErrs[0]
		p.uploadErrs = p.uploadErrs[1:]
		if err != nil {
			return domain.UploadResult{}, err
		}
	}
	return domain.UploadResult{
		RemoteID:  "yt-abc123",
		RemoteURL: "https://www.youtube.com/watch?v=yt-abc123",
	}, nil
}

func (p *fakePlatform) Delete(ctx context.Context, remoteID string, creds entities.Credentials) error {
	p.deleteCalls++
	if len(p.deleteErrs) > 0 {
		err := p.deleteErrs[0]
		p.deleteErrs = p.deleteErrs[1:]
		return err
	}
	return nil
}

type lifecycleFixture struct {
	videos    *infra_repo.InMemoryVideoRepository
	channels  *infra_repo.InMemoryChannelRepository
	tasks     *infra_repo.InMemoryTaskRepository
	platform  *fakePlatform
	service   *LifecycleService
	dispatch  *queue.Dispatcher
	channelID uuid.UUID
	now       time.Time
}

func newLifecycleFixture(t *testing.T) *lifecycleFixture {
	t.Helper()
	ctx := context.Background()

	f := &lifecycleFixture{
		videos:   infra_repo.NewInMemoryVideoRepository(),
		channels: infra_repo.NewInMemoryChannelRepository(),
		tasks:    infra_repo.NewInMemoryTaskRepository(),
		platform: &fakePlatform{},
		now:      time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}

	transport := queue.NewChannelTransport(10)
	f.dispatch = queue.NewDispatcher(f.tasks, transport, time.Second, time.Minute, 3)
	f.dispatch.SetClock(func() time.Time { return f.now })

	oauthConf := &oauth2.Config{ClientID: "test-client"}
	gateway := NewCredentialGateway(f.channels, oauthConf)
	gateway.now = func() time.Time { return f.now }

	f.service = NewLifecycleService(f.videos, f.channels, f.dispatch, f.platform, gateway)
	f.service.SetClock(func() time.Time { return f.now })
	f.service.RegisterHandlers(f.dispatch)

	f.channelID = uuid.New()
	channel := &entities.Channel{
		ChannelID:       f.channelID,
		UserID:          "user-1",
		RemoteChannelID: "UC123",
		Title:           "Test Channel",
		AccessToken:     "access",
		RefreshToken:    "refresh",
		TokenExpiresAt:  f.now.AddDate(0, 1, 0),
		IsActive:        true,
	}
	if err := f.channels.Upsert(ctx, channel); err != nil {
		t.Fatalf("channel setup failed: %v", err)
	}
	return f
}

func (f *lifecycleFixture) addVideo(t *testing.T, status string) uuid.UUID {
	t.Helper()
	video := &entities.Video{
		VideoID:  uuid.New(),
		UserID:   "user-1",
		Title:    "clip",
		Privacy:  constants.PrivacyPrivate,
		FilePath: "/tmp/clip.mp4",
		Status:   status,
	}
	if err := f.videos.Create(context.Background(), video); err != nil {
		t.Fatalf("video setup failed: %v", err)
	}
	return video.VideoID
}

// runDue claims every due task and runs it through the dispatcher, the same
// path the producer and workers take.
func (f *lifecycleFixture) runDue(t *testing.T) int {
	t.Helper()
	ctx := context.Background()
	claimed, err := f.tasks.ClaimDue(ctx, f.now, 10)
	if err != nil {
		t.Fatalf("ClaimDue failed: %v", err)
	}
	for _, task := range claimed {
		payload, err := queue.SerializeJob(queue.Job{
			TaskID:   task.TaskID,
			VideoID:  task.VideoID,
			Action:   task.Action,
			Attempts: task.Attempts,
		})
		if err != nil {
			t.Fatalf("SerializeJob failed: %v", err)
		}
		if err := f.dispatch.Process(ctx, payload); err != nil {
			t.Fatalf("Process failed: %v", err)
		}
	}
	return len(claimed)
}

func (f *lifecycleFixture) getVideo(t *testing.T, id uuid.UUID) *entities.Video {
	t.Helper()
	video, err := f.videos.GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	return video
}

func TestScheduleUploadThenPublish(t *testing.T) {
	ctx := context.Background()
	f := newLifecycleFixture(t)
	videoID := f.addVideo(t, constants.VideoStatusUploaded)

	at := f.now.Add(time.Hour)
	video, err := f.service.ScheduleUpload(ctx, "user-1", videoID, dto.ScheduleUploadRequestDTO{
		ChannelID:   f.channelID.String(),
		ScheduledAt: at,
	})
	if err != nil {
		t.Fatalf("ScheduleUpload failed: %v", err)
	}
	if video.Status != constants.VideoStatusScheduled {
		t.Fatalf("expected scheduled, got %s", video.Status)
	}
	if video.Schedule.UploadJobID == "" || video.Schedule.ChannelID != f.channelID.String() {
		t.Fatal("schedule fields not recorded")
	}

	// Not due yet.
	if ran := f.runDue(t); ran != 0 {
		t.Fatalf("task ran %d times before its time", ran)
	}

	f.now = at.Add(time.Second)
	if ran := f.runDue(t); ran != 1 {
		t.Fatalf("expected 1 run, got %d", ran)
	}

	video = f.getVideo(t, videoID)
	if video.Status != constants.VideoStatusPublished {
		t.Fatalf("expected published, got %s", video.Status)
	}
	if video.Schedule.RemoteVideoID != "yt-abc123" {
		t.Fatalf("remote id not recorded: %q", video.Schedule.RemoteVideoID)
	}
	if video.PublishedAt == nil {
		t.Fatal("published timestamp not recorded")
	}
}

func TestScheduleUploadRejectsWrongStatus(t *testing.T) {
	ctx := context.Background()
	f := newLifecycleFixture(t)
	videoID := f.addVideo(t, constants.VideoStatusPublished)

	_, err := f.service.ScheduleUpload(ctx, "user-1", videoID, dto.ScheduleUploadRequestDTO{
		ChannelID:   f.channelID.String(),
		ScheduledAt: f.now.Add(time.Hour),
	})
	if !apperrors.HasCode(err, apperrors.CodeInvalidState) {
		t.Fatalf("expected invalid_state, got %v", err)
	}
}

func TestScheduleUploadRejectsPastTime(t *testing.T) {
	ctx := context.Background()
	f := newLifecycleFixture(t)
	videoID := f.addVideo(t, constants.VideoStatusUploaded)

	_, err := f.service.ScheduleUpload(ctx, "user-1", videoID, dto.ScheduleUploadRequestDTO{
		ChannelID:   f.channelID.String(),
		ScheduledAt: f.now.Add(-time.Hour),
	})
	if !apperrors.HasCode(err, apperrors.CodeInvalidState) {
		t.Fatalf("expected invalid_state, got %v", err)
	}
}

func TestRescheduleReplacesPriorBooking(t *testing.T) {
	ctx := context.Background()
	f := newLifecycleFixture(t)
	videoID := f.addVideo(t, constants.VideoStatusUploaded)

	first, err := f.service.ScheduleUpload(ctx, "user-1", videoID, dto.ScheduleUploadRequestDTO{
		ChannelID:   f.channelID.String(),
		ScheduledAt: f.now.Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("first ScheduleUpload failed: %v", err)
	}
	firstJob := first.Schedule.UploadJobID

	second, err := f.service.ScheduleUpload(ctx, "user-1", videoID, dto.ScheduleUploadRequestDTO{
		ChannelID:   f.channelID.String(),
		ScheduledAt: f.now.Add(2 * time.Hour),
	})
	if err != nil {
		t.Fatalf("second ScheduleUpload failed: %v", err)
	}
	if second.Status != constants.VideoStatusScheduled {
		t.Fatalf("expected scheduled, got %s", second.Status)
	}
	if second.Schedule.UploadJobID == firstJob {
		t.Fatal("expected a fresh task for the new booking")
	}

	// Only the replacement runs.
	f.now = f.now.Add(3 * time.Hour)
	if ran := f.runDue(t); ran != 1 {
		t.Fatalf("expected exactly 1 run, got %d", ran)
	}
	if f.platform.uploadCalls != 1 {
		t.Fatalf("expected 1 platform upload, got %d", f.platform.uploadCalls)
	}
}

func TestTransientFailuresExhaustToFailed(t *testing.T) {
	ctx := context.Background()
	f := newLifecycleFixture(t)
	videoID := f.addVideo(t, constants.VideoStatusUploaded)
	f.platform.uploadErrs = []error{
		apperrors.ErrTransientRemote(nil),
		apperrors.ErrTransientRemote(nil),
		apperrors.ErrTransientRemote(nil),
	}

	at := f.now.Add(time.Minute)
	if _, err := f.service.ScheduleUpload(ctx, "user-1", videoID, dto.ScheduleUploadRequestDTO{
		ChannelID:   f.channelID.String(),
		ScheduledAt: at,
	}); err != nil {
		t.Fatalf("ScheduleUpload failed: %v", err)
	}

	for i := 0; i < 3; i++ {
		f.now = f.now.Add(5 * time.Minute)
		f.runDue(t)
	}

	if f.platform.uploadCalls != 3 {
		t.Fatalf("expected 3 attempts, got %d", f.platform.uploadCalls)
	}
	video := f.getVideo(t, videoID)
	if video.Status != constants.VideoStatusFailed {
		t.Fatalf("expected failed after exhaustion, got %s", video.Status)
	}
	if video.LastError == "" {
		t.Fatal("terminal failure must record an error")
	}
}

func TestAuthFailureIsTerminal(t *testing.T) {
	ctx := context.Background()
	f := newLifecycleFixture(t)
	videoID := f.addVideo(t, constants.VideoStatusUploaded)
	f.platform.uploadErrs = []error{apperrors.ErrAuthExpired(nil)}

	at := f.now.Add(time.Minute)
	f.service.ScheduleUpload(ctx, "user-1", videoID, dto.ScheduleUploadRequestDTO{
		ChannelID:   f.channelID.String(),
		ScheduledAt: at,
	})

	f.now = at.Add(time.Second)
	f.runDue(t)
	// A terminal failure leaves nothing to claim later.
	f.now = f.now.Add(time.Hour)
	if ran := f.runDue(t); ran != 0 {
		t.Fatalf("terminal failure must not reschedule, ran %d", ran)
	}

	if f.platform.uploadCalls != 1 {
		t.Fatalf("expected 1 attempt, got %d", f.platform.uploadCalls)
	}
	video := f.getVideo(t, videoID)
	if video.Status != constants.VideoStatusFailed {
		t.Fatalf("expected failed, got %s", video.Status)
	}
}

func TestFailedVideoCanBeRescheduled(t *testing.T) {
	ctx := context.Background()
	f := newLifecycleFixture(t)
	videoID := f.addVideo(t, constants.VideoStatusFailed)

	video, err := f.service.ScheduleUpload(ctx, "user-1", videoID, dto.ScheduleUploadRequestDTO{
		ChannelID:   f.channelID.String(),
		ScheduledAt: f.now.Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("ScheduleUpload from failed should work: %v", err)
	}
	if video.Status != constants.VideoStatusScheduled {
		t.Fatalf("expected scheduled, got %s", video.Status)
	}
	if video.LastError != "" {
		t.Fatal("rescheduling must clear the old error")
	}
}

func TestCancelUploadBeforeRun(t *testing.T) {
	ctx := context.Background()
	f := newLifecycleFixture(t)
	videoID := f.addVideo(t, constants.VideoStatusUploaded)

	at := f.now.Add(time.Hour)
	f.service.ScheduleUpload(ctx, "user-1", videoID, dto.ScheduleUploadRequestDTO{
		ChannelID:   f.channelID.String(),
		ScheduledAt: at,
	})

	video, err := f.service.CancelUpload(ctx, "user-1", videoID)
	if err != nil {
		t.Fatalf("CancelUpload failed: %v", err)
	}
	if video.Status != constants.VideoStatusUploaded {
		t.Fatalf("expected uploaded after cancel, got %s", video.Status)
	}
	if video.Schedule.UploadJobID != "" || video.Schedule.UploadScheduledAt != nil {
		t.Fatal("cancel must clear the booking")
	}

	f.now = at.Add(time.Hour)
	if ran := f.runDue(t); ran != 0 {
		t.Fatalf("cancelled booking still ran %d times", ran)
	}
}

func TestScheduleDeleteRequiresPublished(t *testing.T) {
	ctx := context.Background()
	f := newLifecycleFixture(t)
	videoID := f.addVideo(t, constants.VideoStatusUploaded)

	_, err := f.service.ScheduleDelete(ctx, "user-1", videoID, dto.ScheduleDeleteRequestDTO{
		ScheduledAt: f.now.Add(time.Hour),
	})
	if !apperrors.HasCode(err, apperrors.CodeInvalidState) {
		t.Fatalf("expected invalid_state, got %v", err)
	}
}

func TestScheduledDeleteRemovesRemoteVideo(t *testing.T) {
	ctx := context.Background()
	f := newLifecycleFixture(t)
	videoID := f.publishVideo(t)

	at := f.now.Add(time.Hour)
	if _, err := f.service.ScheduleDelete(ctx, "user-1", videoID, dto.ScheduleDeleteRequestDTO{
		ScheduledAt: at,
	}); err != nil {
		t.Fatalf("ScheduleDelete failed: %v", err)
	}

	f.now = at.Add(time.Second)
	f.runDue(t)

	if f.platform.deleteCalls != 1 {
		t.Fatalf("expected 1 delete call, got %d", f.platform.deleteCalls)
	}
	video := f.getVideo(t, videoID)
	if video.Status != constants.VideoStatusDeleted {
		t.Fatalf("expected deleted, got %s", video.Status)
	}
	if video.Schedule.RemoteVideoID != "" || video.Schedule.RemoteURL != "" {
		t.Fatal("delete must clear the remote reference")
	}
}

func TestDeleteMissingRemoteCountsAsSuccess(t *testing.T) {
	ctx := context.Background()
	f := newLifecycleFixture(t)
	videoID := f.publishVideo(t)
	f.platform.deleteErrs = []error{apperrors.ErrNotFound(nil)}

	at := f.now.Add(time.Hour)
	f.service.ScheduleDelete(ctx, "user-1", videoID, dto.ScheduleDeleteRequestDTO{ScheduledAt: at})

	f.now = at.Add(time.Second)
	f.runDue(t)

	video := f.getVideo(t, videoID)
	if video.Status != constants.VideoStatusDeleted {
		t.Fatalf("missing remote video must still end deleted, got %s", video.Status)
	}
}

func TestExhaustedDeleteLeavesPublished(t *testing.T) {
	ctx := context.Background()
	f := newLifecycleFixture(t)
	videoID := f.publishVideo(t)
	f.platform.deleteErrs = []error{
		apperrors.ErrTransientRemote(nil),
		apperrors.ErrTransientRemote(nil),
		apperrors.ErrTransientRemote(nil),
	}

	at := f.now.Add(time.Minute)
	f.service.ScheduleDelete(ctx, "user-1", videoID, dto.ScheduleDeleteRequestDTO{ScheduledAt: at})

	for i := 0; i < 3; i++ {
		f.now = f.now.Add(5 * time.Minute)
		f.runDue(t)
	}

	video := f.getVideo(t, videoID)
	if video.Status != constants.VideoStatusPublished {
		t.Fatalf("exhausted delete must leave the video published, got %s", video.Status)
	}
	if video.LastError == "" {
		t.Fatal("exhausted delete must record the error")
	}
}

// publishVideo walks a video through the real publish path so the schedule
// fields carry what a published row carries in production.
func (f *lifecycleFixture) publishVideo(t *testing.T) uuid.UUID {
	t.Helper()
	ctx := context.Background()
	videoID := f.addVideo(t, constants.VideoStatusUploaded)

	at := f.now.Add(time.Minute)
	if _, err := f.service.ScheduleUpload(ctx, "user-1", videoID, dto.ScheduleUploadRequestDTO{
		ChannelID:   f.channelID.String(),
		ScheduledAt: at,
	}); err != nil {
		t.Fatalf("ScheduleUpload failed: %v", err)
	}
	f.now = at.Add(time.Second)
	f.runDue(t)

	video := f.getVideo(t, videoID)
	if video.Status != constants.VideoStatusPublished {
		t.Fatalf("publish setup failed, status %s", video.Status)
	}
	return videoID
}
