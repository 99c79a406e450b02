package dto

import "time"

type UpcomingAction struct {
	VideoID     string    `json:"video_id"`
	Title       string    `json:"title"`
	Action      string    `json:"action"`
	ScheduledAt time.Time `json:"scheduled_at"`
}

type DashboardStatsResponse struct {
	TotalVideos    int64            `json:"total_videos"`
	VideosByStatus map[string]int64 `json:"videos_by_status"`
	StorageBytes   int64            `json:"storage_bytes"`
	Upcoming       []UpcomingAction `json:"upcoming"`
}
