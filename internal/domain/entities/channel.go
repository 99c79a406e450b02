package entities

import (
	"time"

	"github.com/google/uuid"
)

// Channel is one connected YouTube account. Disconnecting flips IsActive
// instead of deleting the row so old videos keep a resolvable channel reference.
type Channel struct {
	ChannelID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID          string    `gorm:"type:varchar(64);index;not null" json:"user_id"`
	RemoteChannelID string    `gorm:"type:varchar(64);index;not null" json:"remote_channel_id"`
	Title           string    `gorm:"type:varchar(255)" json:"title"`
	ThumbnailURL    string    `gorm:"type:varchar(500)" json:"thumbnail_url,omitempty"`
	SubscriberCount uint64    `json:"subscriber_count,omitempty"`
	ViewCount       uint64    `json:"view_count,omitempty"`
	VideoCount      uint64    `json:"video_count,omitempty"`
	AccessToken     string    `gorm:"type:text;not null" json:"-"`
	RefreshToken    string    `gorm:"type:text" json:"-"`
	TokenExpiresAt  time.Time `json:"-"`
	IsActive        bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
