package dto

import "time"

type ScheduleUploadRequestDTO struct {
	ChannelID   string    `json:"channel_id"`
	ScheduledAt time.Time `json:"scheduled_at"`
}

type ScheduleDeleteRequestDTO struct {
	ScheduledAt time.Time `json:"scheduled_at"`
}

type ScheduleResponse struct {
	Status      string    `json:"status"`
	VideoID     string    `json:"video_id"`
	JobID       string    `json:"job_id"`
	ScheduledAt time.Time `json:"scheduled_at"`
	Message     string    `json:"message,omitempty"`
}
