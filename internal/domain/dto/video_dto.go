package dto

import "time"

type UploadVideoRequestDTO struct {
	Title       string `json:"title" form:"title"`
	Description string `json:"description" form:"description"`
	Tags        string `json:"tags" form:"tags"` // comma separated
	Privacy     string `json:"privacy" form:"privacy"`
	ChannelID   string `json:"channel_id" form:"channel_id"` // optional, enables Drive mirroring
}

type UpdateVideoRequestDTO struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Tags        *string `json:"tags"`
	Privacy     *string `json:"privacy"`
}

type VideoResponse struct {
	ID                string     `json:"id"`
	Title             string     `json:"title"`
	Description       string     `json:"description"`
	Tags              []string   `json:"tags"`
	Privacy           string     `json:"privacy"`
	FileSize          int64      `json:"file_size"`
	MimeType          string     `json:"mime_type"`
	Status            string     `json:"status"`
	LastError         string     `json:"last_error,omitempty"`
	StorageURL        string     `json:"storage_url,omitempty"`
	RemoteVideoID     string     `json:"remote_video_id,omitempty"`
	RemoteURL         string     `json:"remote_url,omitempty"`
	UploadScheduledAt *time.Time `json:"upload_scheduled_at,omitempty"`
	DeleteScheduledAt *time.Time `json:"delete_scheduled_at,omitempty"`
	PublishedAt       *time.Time `json:"published_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

type ListVideosResponse struct {
	Videos []VideoResponse `json:"videos"`
	Count  int             `json:"count"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
