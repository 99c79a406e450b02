package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"video-scheduler/internal/domain/repositories"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// DriveStorage mirrors uploaded files into the connected account's Drive.
// It is built per request because the HTTP client carries user credentials.
type DriveStorage struct {
	httpClient *http.Client
	folderID   string
}

func NewDriveStorage(httpClient *http.Client, folderID string) *DriveStorage {
	return &DriveStorage{httpClient: httpClient, folderID: folderID}
}

func (d *DriveStorage) Upload(ctx context.Context, file io.Reader, metadata map[string]string) (repositories.StoredObject, error) {
	service, err := drive.NewService(ctx, option.WithHTTPClient(d.httpClient))
	if err != nil {
		return repositories.StoredObject{}, fmt.Errorf("could not build drive service: %w", err)
	}

	meta := &drive.File{Name: metadata["filename"]}
	if d.folderID != "" {
		meta.Parents = []string{d.folderID}
	}

	created, err := service.Files.Create(meta).
		Media(file, googleapi.ContentType(metadata["content_type"])).
		Fields("id, webViewLink").
		Context(ctx).
		Do()
	if err != nil {
		return repositories.StoredObject{}, fmt.Errorf("drive upload failed: %w", err)
	}

	return repositories.StoredObject{FileID: created.Id, URL: created.WebViewLink}, nil
}

func (d *DriveStorage) Delete(ctx context.Context, fileID string) error {
	service, err := drive.NewService(ctx, option.WithHTTPClient(d.httpClient))
	if err != nil {
		return fmt.Errorf("could not build drive service: %w", err)
	}
	return service.Files.Delete(fileID).Context(ctx).Do()
}
