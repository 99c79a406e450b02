package usecases

import (
	"context"
	"sort"

	"video-scheduler/internal/domain/dto"
	domain "video-scheduler/internal/domain/repositories"
	"video-scheduler/pkg/constants"
)

type DashboardService struct {
	videos domain.VideoRepository
}

func NewDashboardService(videos domain.VideoRepository) *DashboardService {
	return &DashboardService{videos: videos}
}

// Stats aggregates the owner's library: counts per status, total storage
// footprint and the upcoming scheduled actions in time order.
func (s *DashboardService) Stats(ctx context.Context, userID string) (*dto.DashboardStatsResponse, error) {
	counts, err := s.videos.CountByStatus(ctx, userID)
	if err != nil {
		return nil, err
	}
	storageBytes, err := s.videos.SumFileSize(ctx, userID)
	if err != nil {
		return nil, err
	}
	scheduled, err := s.videos.ListScheduled(ctx, userID)
	if err != nil {
		return nil, err
	}

	var total int64
	for _, c := range counts {
		total += c
	}

	upcoming := make([]dto.UpcomingAction, 0)
	for _, v := range scheduled {
		if v.Status == constants.VideoStatusScheduled && v.Schedule.UploadScheduledAt != nil {
			upcoming = append(upcoming, dto.UpcomingAction{
				VideoID:     v.VideoID.String(),
				Title:       v.Title,
				Action:      constants.ActionUpload,
				ScheduledAt: *v.Schedule.UploadScheduledAt,
			})
		}
		if v.Status == constants.VideoStatusPublished && v.Schedule.DeleteScheduledAt != nil {
			upcoming = append(upcoming, dto.UpcomingAction{
				VideoID:     v.VideoID.String(),
				Title:       v.Title,
				Action:      constants.ActionDelete,
				ScheduledAt: *v.Schedule.DeleteScheduledAt,
			})
		}
	}
	sort.Slice(upcoming, func(i, j int) bool {
		return upcoming[i].ScheduledAt.Before(upcoming[j].ScheduledAt)
	})

	return &dto.DashboardStatsResponse{
		TotalVideos:    total,
		VideosByStatus: counts,
		StorageBytes:   storageBytes,
		Upcoming:       upcoming,
	}, nil
}
