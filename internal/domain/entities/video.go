package entities

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Schedule is embedded into Video; columns carry the schedule_ prefix.
type Schedule struct {
	UploadScheduledAt *time.Time `json:"upload_scheduled_at,omitempty"`
	DeleteScheduledAt *time.Time `json:"delete_scheduled_at,omitempty"`
	RemoteVideoID     string     `gorm:"type:varchar(64)" json:"remote_video_id,omitempty"`
	RemoteURL         string     `gorm:"type:varchar(500)" json:"remote_url,omitempty"`
	UploadJobID       string     `gorm:"type:varchar(64)" json:"upload_job_id,omitempty"`
	DeleteJobID       string     `gorm:"type:varchar(64)" json:"delete_job_id,omitempty"`
	// ChannelID is written when the upload is scheduled, so any later
	// delete (including sweeper re-submission) knows which credentials to use.
	// Stored as text, not uuid; unscheduled rows carry the empty string.
	ChannelID string `gorm:"type:varchar(64)" json:"channel_id,omitempty"`
}

type Video struct {
	VideoID       uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        string     `gorm:"type:varchar(64);index;not null" json:"user_id"`
	Title         string     `gorm:"type:varchar(255);not null" json:"title"`
	Description   string     `gorm:"type:text" json:"description"`
	Tags          string     `gorm:"type:text" json:"-"`
	Privacy       string     `gorm:"type:varchar(20);not null;default:'private'" json:"privacy"`
	FilePath      string     `gorm:"type:varchar(500);not null" json:"file_path"`
	FileSize      int64      `json:"file_size"`
	MimeType      string     `gorm:"type:varchar(100)" json:"mime_type"`
	Duration      int64      `json:"duration,omitempty"`
	StorageFileID string     `gorm:"type:varchar(128)" json:"storage_file_id,omitempty"`
	StorageURL    string     `gorm:"type:varchar(500)" json:"storage_url,omitempty"`
	Status        string     `gorm:"type:varchar(20);index;not null" json:"status"`
	LastError     string     `gorm:"type:text" json:"last_error,omitempty"`
	PublishedAt   *time.Time `json:"published_at,omitempty"`
	// Version backs the conditional update; two writers racing on the same
	// video leave exactly one winner, the loser gets a conflict error.
	Version   int64     `gorm:"not null;default:0" json:"-"`
	Schedule  Schedule  `gorm:"embedded;embeddedPrefix:schedule_" json:"schedule"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TagList splits the comma-joined tags column.
func (v *Video) TagList() []string {
	if v.Tags == "" {
		return []string{}
	}
	parts := strings.Split(v.Tags, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

func (v *Video) SetTags(tags []string) {
	v.Tags = strings.Join(tags, ",")
}
