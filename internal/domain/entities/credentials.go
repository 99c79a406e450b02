package entities

import (
	"time"

	"github.com/google/uuid"
)

// Credentials is the typed token bundle passed between the gateway, the
// platform adapter and the storage strategies. Passed by value; refreshing
// goes through the credential gateway, never through mutation in place.
type Credentials struct {
	ChannelID    uuid.UUID
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
	Scopes       []string
}

func (c Credentials) Expired(now time.Time) bool {
	return !c.ExpiresAt.After(now)
}
