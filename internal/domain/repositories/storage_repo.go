package repositories

import (
	"context"
	"io"
)

// StoredObject identifies a blob inside a storage backend.
type StoredObject struct {
	FileID string
	URL    string
}

// StorageStrategy abstracts the blob store the source files land in
// (local disk, S3 or the user's Google Drive).
type StorageStrategy interface {
	Upload(ctx context.Context, r io.Reader, metadata map[string]string) (StoredObject, error)
	Delete(ctx context.Context, fileID string) error
}
