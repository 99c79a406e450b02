package usecases

import (
	"context"
	"log"
	"time"

	"video-scheduler/internal/domain/dto"
	"video-scheduler/internal/domain/entities"
	domain "video-scheduler/internal/domain/repositories"
	"video-scheduler/internal/infrastructure/queue"
	"video-scheduler/pkg/constants"
	apperrors "video-scheduler/pkg/errors"

	"github.com/google/uuid"
)

// LifecycleService owns the video state machine: scheduling, the publish and
// delete task handlers, and the terminal transitions. It is the only place
// that decides whether a remote failure is worth another attempt.
type LifecycleService struct {
	videos    domain.VideoRepository
	channels  domain.ChannelRepository
	scheduler queue.Scheduler
	platform  domain.MediaPlatform
	gateway   *CredentialGateway
	now       func() time.Time
}

func NewLifecycleService(videos domain.VideoRepository, channels domain.ChannelRepository, scheduler queue.Scheduler, platform domain.MediaPlatform, gateway *CredentialGateway) *LifecycleService {
	return &LifecycleService{
		videos:    videos,
		channels:  channels,
		scheduler: scheduler,
		platform:  platform,
		gateway:   gateway,
		now:       time.Now,
	}
}

// SetClock overrides the service clock. Test seam only.
func (s *LifecycleService) SetClock(now func() time.Time) {
	s.now = now
}

// RegisterHandlers binds the upload and delete actions to the dispatcher.
func (s *LifecycleService) RegisterHandlers(d *queue.Dispatcher) {
	d.Register(constants.ActionUpload, uploadTaskHandler{s})
	d.Register(constants.ActionDelete, deleteTaskHandler{s})
}

// ScheduleUpload books a future publish to the given channel. Valid from
// uploaded, failed and scheduled; re-scheduling a pending publish cancels
// the prior booking and replaces it.
func (s *LifecycleService) ScheduleUpload(ctx context.Context, userID string, videoID uuid.UUID, req dto.ScheduleUploadRequestDTO) (*entities.Video, error) {
	video, err := s.videos.GetForUser(ctx, videoID, userID)
	if err != nil {
		return nil, err
	}
	switch video.Status {
	case constants.VideoStatusUploaded, constants.VideoStatusScheduled, constants.VideoStatusFailed:
	default:
		return nil, apperrors.ErrInvalidState(nil).Msg("Video is not ready to be scheduled")
	}
	if !req.ScheduledAt.After(s.now()) {
		return nil, apperrors.ErrInvalidState(nil).Msg("Scheduled time must be in the future")
	}

	channelID, err := uuid.Parse(req.ChannelID)
	if err != nil {
		return nil, apperrors.ErrInvalidState(err).Msg("Invalid channel id")
	}
	if _, err := s.channels.GetActiveByID(ctx, channelID); err != nil {
		return nil, err
	}

	if video.Schedule.UploadJobID != "" {
		s.cancelTask(ctx, video.Schedule.UploadJobID)
	}

	taskID, err := s.scheduler.Schedule(ctx, videoID, constants.ActionUpload, req.ScheduledAt)
	if err != nil {
		return nil, err
	}

	at := req.ScheduledAt
	video.Status = constants.VideoStatusScheduled
	video.LastError = ""
	video.Schedule.UploadScheduledAt = &at
	video.Schedule.UploadJobID = taskID.String()
	video.Schedule.ChannelID = channelID.String()

	if err := s.videos.UpdateWithVersion(ctx, video); err != nil {
		// The booking lost; take the fresh task back out of the queue.
		s.cancelTask(ctx, taskID.String())
		return nil, err
	}
	return video, nil
}

// CancelUpload revokes a booked publish before it starts running.
func (s *LifecycleService) CancelUpload(ctx context.Context, userID string, videoID uuid.UUID) (*entities.Video, error) {
	video, err := s.videos.GetForUser(ctx, videoID, userID)
	if err != nil {
		return nil, err
	}
	if video.Status != constants.VideoStatusScheduled || video.Schedule.UploadJobID == "" {
		return nil, apperrors.ErrInvalidState(nil).Msg("No pending publish to cancel")
	}

	taskID, err := uuid.Parse(video.Schedule.UploadJobID)
	if err != nil {
		return nil, apperrors.ErrInternal(err).Msg("Corrupt job reference")
	}
	cancelled, err := s.scheduler.Cancel(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if !cancelled {
		return nil, apperrors.ErrInvalidState(nil).Msg("Publish already started, too late to cancel")
	}

	video.Status = constants.VideoStatusUploaded
	video.Schedule.UploadScheduledAt = nil
	video.Schedule.UploadJobID = ""
	if err := s.videos.UpdateWithVersion(ctx, video); err != nil {
		return nil, err
	}
	return video, nil
}

// ScheduleDelete books a future takedown of a published video.
func (s *LifecycleService) ScheduleDelete(ctx context.Context, userID string, videoID uuid.UUID, req dto.ScheduleDeleteRequestDTO) (*entities.Video, error) {
	video, err := s.videos.GetForUser(ctx, videoID, userID)
	if err != nil {
		return nil, err
	}
	if video.Status != constants.VideoStatusPublished || video.Schedule.RemoteVideoID == "" {
		return nil, apperrors.ErrInvalidState(nil).Msg("Only published videos can be scheduled for deletion")
	}
	if !req.ScheduledAt.After(s.now()) {
		return nil, apperrors.ErrInvalidState(nil).Msg("Scheduled time must be in the future")
	}

	if video.Schedule.DeleteJobID != "" {
		s.cancelTask(ctx, video.Schedule.DeleteJobID)
	}

	taskID, err := s.scheduler.Schedule(ctx, videoID, constants.ActionDelete, req.ScheduledAt)
	if err != nil {
		return nil, err
	}

	at := req.ScheduledAt
	video.Schedule.DeleteScheduledAt = &at
	video.Schedule.DeleteJobID = taskID.String()

	if err := s.videos.UpdateWithVersion(ctx, video); err != nil {
		s.cancelTask(ctx, taskID.String())
		return nil, err
	}
	return video, nil
}

// CancelDelete revokes a booked takedown before it starts running.
func (s *LifecycleService) CancelDelete(ctx context.Context, userID string, videoID uuid.UUID) (*entities.Video, error) {
	video, err := s.videos.GetForUser(ctx, videoID, userID)
	if err != nil {
		return nil, err
	}
	if video.Schedule.DeleteJobID == "" {
		return nil, apperrors.ErrInvalidState(nil).Msg("No pending deletion to cancel")
	}

	taskID, err := uuid.Parse(video.Schedule.DeleteJobID)
	if err != nil {
		return nil, apperrors.ErrInternal(err).Msg("Corrupt job reference")
	}
	cancelled, err := s.scheduler.Cancel(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if !cancelled {
		return nil, apperrors.ErrInvalidState(nil).Msg("Deletion already started, too late to cancel")
	}

	video.Schedule.DeleteScheduledAt = nil
	video.Schedule.DeleteJobID = ""
	if err := s.videos.UpdateWithVersion(ctx, video); err != nil {
		return nil, err
	}
	return video, nil
}

func (s *LifecycleService) cancelTask(ctx context.Context, jobID string) {
	taskID, err := uuid.Parse(jobID)
	if err != nil {
		return
	}
	if _, err := s.scheduler.Cancel(ctx, taskID); err != nil {
		log.Printf("Lifecycle: could not cancel task %s: %v", taskID, err)
	}
}

// runUpload executes one publish attempt.
func (s *LifecycleService) runUpload(ctx context.Context, job queue.Job) queue.Outcome {
	video, err := s.videos.GetByID(ctx, job.VideoID)
	if err != nil {
		return queue.Outcome{Err: err}
	}
	// scheduled on the first attempt, processing on a retry.
	if video.Status != constants.VideoStatusScheduled && video.Status != constants.VideoStatusProcessing {
		return queue.Outcome{}
	}

	video, err = mutateVideo(ctx, s.videos, job.VideoID, func(v *entities.Video) error {
		v.Status = constants.VideoStatusProcessing
		return nil
	})
	if err != nil {
		return queue.Outcome{Err: err}
	}

	channelID, err := uuid.Parse(video.Schedule.ChannelID)
	if err != nil {
		s.markFailed(ctx, job.VideoID, "no channel bound to the scheduled upload")
		return queue.Outcome{Err: apperrors.ErrInternal(err)}
	}
	creds, err := s.gateway.Credentials(ctx, channelID)
	if err != nil {
		s.markFailed(ctx, job.VideoID, err.Error())
		return queue.Outcome{Err: err}
	}

	result, err := s.platform.Upload(ctx, video.FilePath, domain.UploadMetadata{
		Title:       video.Title,
		Description: video.Description,
		Tags:        video.TagList(),
		Privacy:     video.Privacy,
		MimeType:    video.MimeType,
	}, creds)
	if err != nil {
		if apperrors.IsRetryable(err) {
			s.recordError(ctx, job.VideoID, err.Error())
			return queue.Outcome{Retry: true, Err: err}
		}
		s.markFailed(ctx, job.VideoID, err.Error())
		return queue.Outcome{Err: err}
	}

	publishedAt := s.now()
	if _, err := mutateVideo(ctx, s.videos, job.VideoID, func(v *entities.Video) error {
		v.Status = constants.VideoStatusPublished
		v.LastError = ""
		v.PublishedAt = &publishedAt
		v.Schedule.RemoteVideoID = result.RemoteID
		v.Schedule.RemoteURL = result.RemoteURL
		return nil
	}); err != nil {
		// The remote upload already succeeded; report the bookkeeping failure
		// without retrying the transfer.
		return queue.Outcome{Err: err}
	}
	return queue.Outcome{}
}

// abandonUpload runs after the retry budget is gone.
func (s *LifecycleService) abandonUpload(ctx context.Context, job queue.Job) {
	s.markFailed(ctx, job.VideoID, "publish abandoned after repeated failures")
}

// runDelete executes one takedown attempt. A remote video that is already
// gone counts as success.
func (s *LifecycleService) runDelete(ctx context.Context, job queue.Job) queue.Outcome {
	video, err := s.videos.GetByID(ctx, job.VideoID)
	if err != nil {
		if apperrors.HasCode(err, apperrors.CodeNotFound) {
			return queue.Outcome{}
		}
		return queue.Outcome{Err: err}
	}
	if video.Status != constants.VideoStatusPublished || video.Schedule.RemoteVideoID == "" {
		return queue.Outcome{}
	}

	channelID, err := uuid.Parse(video.Schedule.ChannelID)
	if err != nil {
		s.recordError(ctx, job.VideoID, "no channel bound to the scheduled deletion")
		return queue.Outcome{Err: apperrors.ErrInternal(err)}
	}
	creds, err := s.gateway.Credentials(ctx, channelID)
	if err != nil {
		s.recordError(ctx, job.VideoID, err.Error())
		return queue.Outcome{Err: err}
	}

	err = s.platform.Delete(ctx, video.Schedule.RemoteVideoID, creds)
	if err != nil && !apperrors.HasCode(err, apperrors.CodeNotFound) {
		if apperrors.IsRetryable(err) {
			s.recordError(ctx, job.VideoID, err.Error())
			return queue.Outcome{Retry: true, Err: err}
		}
		s.recordError(ctx, job.VideoID, err.Error())
		return queue.Outcome{Err: err}
	}

	if _, err := mutateVideo(ctx, s.videos, job.VideoID, func(v *entities.Video) error {
		v.Status = constants.VideoStatusDeleted
		v.LastError = ""
		v.Schedule.RemoteVideoID = ""
		v.Schedule.RemoteURL = ""
		return nil
	}); err != nil {
		return queue.Outcome{Err: err}
	}
	return queue.Outcome{}
}

// abandonDelete leaves the video published; only the error is recorded so
// the sweeper and the owner can see the takedown never landed.
func (s *LifecycleService) abandonDelete(ctx context.Context, job queue.Job) {
	s.recordError(ctx, job.VideoID, "deletion abandoned after repeated failures")
}

func (s *LifecycleService) markFailed(ctx context.Context, videoID uuid.UUID, reason string) {
	if _, err := mutateVideo(ctx, s.videos, videoID, func(v *entities.Video) error {
		v.Status = constants.VideoStatusFailed
		v.LastError = reason
		return nil
	}); err != nil {
		log.Printf("Lifecycle: could not mark video %s failed: %v", videoID, err)
	}
}

func (s *LifecycleService) recordError(ctx context.Context, videoID uuid.UUID, reason string) {
	if _, err := mutateVideo(ctx, s.videos, videoID, func(v *entities.Video) error {
		v.LastError = reason
		return nil
	}); err != nil {
		log.Printf("Lifecycle: could not record error on video %s: %v", videoID, err)
	}
}

type uploadTaskHandler struct {
	s *LifecycleService
}

func (h uploadTaskHandler) Handle(ctx context.Context, job queue.Job) queue.Outcome {
	return h.s.runUpload(ctx, job)
}

func (h uploadTaskHandler) Abandoned(ctx context.Context, job queue.Job) {
	h.s.abandonUpload(ctx, job)
}

type deleteTaskHandler struct {
	s *LifecycleService
}

func (h deleteTaskHandler) Handle(ctx context.Context, job queue.Job) queue.Outcome {
	return h.s.runDelete(ctx, job)
}

func (h deleteTaskHandler) Abandoned(ctx context.Context, job queue.Job) {
	h.s.abandonDelete(ctx, job)
}
