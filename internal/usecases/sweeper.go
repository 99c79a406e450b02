package usecases

import (
	"context"
	"log"
	"time"

	"video-scheduler/internal/domain/entities"
	domain "video-scheduler/internal/domain/repositories"
	"video-scheduler/internal/infrastructure/queue"
	"video-scheduler/pkg/constants"
	apperrors "video-scheduler/pkg/errors"

	"github.com/google/uuid"
)

// SweeperService re-submits takedowns whose task got lost or exhausted.
// Running it twice in a row schedules nothing extra.
type SweeperService struct {
	videos    domain.VideoRepository
	scheduler queue.Scheduler
	now       func() time.Time
}

func NewSweeperService(videos domain.VideoRepository, scheduler queue.Scheduler) *SweeperService {
	return &SweeperService{
		videos:    videos,
		scheduler: scheduler,
		now:       time.Now,
	}
}

// SetClock overrides the sweeper clock. Test seam only.
func (s *SweeperService) SetClock(now func() time.Time) {
	s.now = now
}

// SweepOverdueDeletes finds published videos past their delete time and
// books an immediate takedown for each one without a live task. Returns the
// number of takedowns booked.
func (s *SweeperService) SweepOverdueDeletes(ctx context.Context) (int, error) {
	overdue, err := s.videos.FindOverdueDeletes(ctx, s.now())
	if err != nil {
		return 0, err
	}

	booked := 0
	for _, video := range overdue {
		if s.hasLiveTask(ctx, video.Schedule.DeleteJobID) {
			continue
		}

		taskID, err := s.scheduler.Schedule(ctx, video.VideoID, constants.ActionDelete, s.now())
		if err != nil {
			log.Printf("Sweeper: could not book takedown for %s: %v", video.VideoID, err)
			continue
		}

		if _, err := mutateVideo(ctx, s.videos, video.VideoID, func(v *entities.Video) error {
			v.Schedule.DeleteJobID = taskID.String()
			return nil
		}); err != nil {
			// Someone else touched the row; the booked task will still run and
			// no-op if the video left the published state.
			if !apperrors.HasCode(err, apperrors.CodeConflict) {
				log.Printf("Sweeper: could not record task for %s: %v", video.VideoID, err)
			}
		}
		booked++
	}
	return booked, nil
}

func (s *SweeperService) hasLiveTask(ctx context.Context, jobID string) bool {
	if jobID == "" {
		return false
	}
	taskID, err := uuid.Parse(jobID)
	if err != nil {
		return false
	}
	active, err := s.scheduler.Active(ctx, taskID)
	if err != nil {
		log.Printf("Sweeper: could not check task %s: %v", taskID, err)
		// Assume live rather than double-book.
		return true
	}
	return active
}
