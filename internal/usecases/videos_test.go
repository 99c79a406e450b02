package usecases

import (
	"context"
	"testing"
	"time"

	"video-scheduler/internal/domain/entities"
	infra_repo "video-scheduler/internal/infrastructure/repositories"
	"video-scheduler/pkg/constants"
	apperrors "video-scheduler/pkg/errors"

	"github.com/google/uuid"
)

func seedVideo(t *testing.T, repo *infra_repo.InMemoryVideoRepository, userID, status string, created time.Time) uuid.UUID {
	t.Helper()
	v := &entities.Video{
		VideoID:   uuid.New(),
		UserID:    userID,
		Title:     "clip",
		Privacy:   constants.PrivacyPrivate,
		Status:    status,
		CreatedAt: created,
	}
	if err := repo.Create(context.Background(), v); err != nil {
		t.Fatalf("video setup failed: %v", err)
	}
	return v.VideoID
}

func TestListFiltersByStatus(t *testing.T) {
	ctx := context.Background()
	repo := infra_repo.NewInMemoryVideoRepository()
	svc := NewVideoService(repo, nil, nil, 1<<30, []string{"video/mp4"}, false)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	seedVideo(t, repo, "user-1", constants.VideoStatusUploaded, base)
	seedVideo(t, repo, "user-1", constants.VideoStatusPublished, base.Add(time.Minute))
	seedVideo(t, repo, "user-1", constants.VideoStatusPublished, base.Add(2*time.Minute))
	seedVideo(t, repo, "user-2", constants.VideoStatusPublished, base)

	published, err := svc.List(ctx, "user-1", constants.VideoStatusPublished, 0, 50)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(published) != 2 {
		t.Fatalf("expected 2 published videos, got %d", len(published))
	}
	for _, v := range published {
		if v.Status != constants.VideoStatusPublished {
			t.Fatalf("filter leaked status %s", v.Status)
		}
	}

	all, err := svc.List(ctx, "user-1", "", 0, 50)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 videos without filter, got %d", len(all))
	}
}

func TestListRejectsUnknownStatus(t *testing.T) {
	repo := infra_repo.NewInMemoryVideoRepository()
	svc := NewVideoService(repo, nil, nil, 1<<30, []string{"video/mp4"}, false)

	_, err := svc.List(context.Background(), "user-1", "archived", 0, 50)
	if !apperrors.HasCode(err, apperrors.CodeInvalidState) {
		t.Fatalf("expected invalid_state, got %v", err)
	}
}
