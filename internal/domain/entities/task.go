package entities

import (
	"time"

	"github.com/google/uuid"
)

// ScheduledTask is one unit of deferred work owned by the dispatcher.
// Other components only ever hold the TaskID, for cancellation.
type ScheduledTask struct {
	TaskID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	VideoID   uuid.UUID `gorm:"type:uuid;index;not null" json:"video_id"`
	Action    string    `gorm:"type:varchar(20);not null" json:"action"`
	ExecuteAt time.Time `gorm:"index;not null" json:"execute_at"`
	Status    string    `gorm:"type:varchar(20);index;not null;default:'pending'" json:"status"`
	Attempts  int       `gorm:"not null;default:0" json:"attempts"`
	LastError string    `gorm:"type:text" json:"last_error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
