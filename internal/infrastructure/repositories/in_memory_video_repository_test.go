package repositories

import (
	"context"
	"testing"
	"time"

	"video-scheduler/internal/domain/entities"
	"video-scheduler/pkg/constants"
	apperrors "video-scheduler/pkg/errors"

	"github.com/google/uuid"
)

func TestUpdateWithVersionConflict(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryVideoRepository()

	video := &entities.Video{
		VideoID: uuid.New(),
		UserID:  "user-1",
		Title:   "clip",
		Status:  constants.VideoStatusUploaded,
	}
	if err := repo.Create(ctx, video); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// Two copies of the same version race; the second write must lose.
	first, _ := repo.GetByID(ctx, video.VideoID)
	second, _ := repo.GetByID(ctx, video.VideoID)

	first.Title = "winner"
	if err := repo.UpdateWithVersion(ctx, first); err != nil {
		t.Fatalf("first write failed: %v", err)
	}

	second.Title = "loser"
	err := repo.UpdateWithVersion(ctx, second)
	if !apperrors.HasCode(err, apperrors.CodeConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}

	stored, _ := repo.GetByID(ctx, video.VideoID)
	if stored.Title != "winner" {
		t.Fatalf("losing write leaked through: %q", stored.Title)
	}
	if stored.Version != 1 {
		t.Fatalf("expected version 1 after one write, got %d", stored.Version)
	}
}

func TestFindOverdueDeletesFiltering(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryVideoRepository()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	overdue := &entities.Video{
		VideoID: uuid.New(),
		UserID:  "user-1",
		Status:  constants.VideoStatusPublished,
		Schedule: entities.Schedule{
			DeleteScheduledAt: &past,
			RemoteVideoID:     "yt-1",
		},
	}
	notYetDue := &entities.Video{
		VideoID: uuid.New(),
		UserID:  "user-1",
		Status:  constants.VideoStatusPublished,
		Schedule: entities.Schedule{
			DeleteScheduledAt: &future,
			RemoteVideoID:     "yt-2",
		},
	}
	wrongStatus := &entities.Video{
		VideoID: uuid.New(),
		UserID:  "user-1",
		Status:  constants.VideoStatusDeleted,
		Schedule: entities.Schedule{
			DeleteScheduledAt: &past,
			RemoteVideoID:     "yt-3",
		},
	}
	noRemote := &entities.Video{
		VideoID: uuid.New(),
		UserID:  "user-1",
		Status:  constants.VideoStatusPublished,
		Schedule: entities.Schedule{
			DeleteScheduledAt: &past,
		},
	}
	for _, v := range []*entities.Video{overdue, notYetDue, wrongStatus, noRemote} {
		if err := repo.Create(ctx, v); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	found, err := repo.FindOverdueDeletes(ctx, now)
	if err != nil {
		t.Fatalf("FindOverdueDeletes failed: %v", err)
	}
	if len(found) != 1 {
		t.Fatalf("expected 1 overdue video, got %d", len(found))
	}
	if found[0].VideoID != overdue.VideoID {
		t.Fatal("wrong video reported overdue")
	}
}

func TestGetForUserHidesOtherUsers(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryVideoRepository()

	video := &entities.Video{
		VideoID: uuid.New(),
		UserID:  "user-1",
		Status:  constants.VideoStatusUploaded,
	}
	repo.Create(ctx, video)

	_, err := repo.GetForUser(ctx, video.VideoID, "user-2")
	if !apperrors.HasCode(err, apperrors.CodeNotFound) {
		t.Fatalf("expected not_found for foreign video, got %v", err)
	}
}
