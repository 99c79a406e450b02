package repositories

import (
	"context"

	"video-scheduler/internal/domain/entities"

	"golang.org/x/oauth2"
)

type UploadMetadata struct {
	Title       string
	Description string
	Tags        []string
	Privacy     string
	MimeType    string
}

type UploadResult struct {
	RemoteID  string
	RemoteURL string
}

// MediaPlatform is the uniform surface over the remote video platform.
// Implementations hold no per-call state; credentials travel with each call.
type MediaPlatform interface {
	// Upload streams the file at filePath to the platform. The transfer is
	// chunked and resumable so a transient failure mid-upload does not force
	// a restart from byte zero.
	Upload(ctx context.Context, filePath string, meta UploadMetadata, creds entities.Credentials) (UploadResult, error)
	// Delete removes a previously uploaded video. A missing remote video is
	// reported with a not_found error; callers treat that as success.
	Delete(ctx context.Context, remoteID string, creds entities.Credentials) error
}

// RemoteChannelInfo is what the platform reports about the authenticated account.
type RemoteChannelInfo struct {
	RemoteChannelID string
	Title           string
	ThumbnailURL    string
	SubscriberCount uint64
	ViewCount       uint64
	VideoCount      uint64
}

// ChannelSource looks up the channel behind a freshly exchanged token.
type ChannelSource interface {
	ChannelInfo(ctx context.Context, token *oauth2.Token) (*RemoteChannelInfo, error)
}
