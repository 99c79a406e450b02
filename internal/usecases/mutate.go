package usecases

import (
	"context"

	"video-scheduler/internal/domain/entities"
	domain "video-scheduler/internal/domain/repositories"
	apperrors "video-scheduler/pkg/errors"

	"github.com/google/uuid"
)

const mutateRetries = 5

// mutateVideo refetches the row and reapplies the change until the
// conditional write wins. Used on the dispatcher side where losing a version
// race must not re-run a remote call that already succeeded.
func mutateVideo(ctx context.Context, repo domain.VideoRepository, id uuid.UUID, apply func(*entities.Video) error) (*entities.Video, error) {
	for i := 0; i < mutateRetries; i++ {
		video, err := repo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if err := apply(video); err != nil {
			return nil, err
		}
		err = repo.UpdateWithVersion(ctx, video)
		if err == nil {
			return video, nil
		}
		if !apperrors.HasCode(err, apperrors.CodeConflict) {
			return nil, err
		}
	}
	return nil, apperrors.ErrConflict(nil).Msg("Video kept changing under concurrent writers")
}
