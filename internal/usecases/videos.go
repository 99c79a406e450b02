package usecases

import (
	"context"
	"log"
	"mime/multipart"
	"os"

	"video-scheduler/internal/domain/dto"
	"video-scheduler/internal/domain/entities"
	domain "video-scheduler/internal/domain/repositories"
	"video-scheduler/internal/infrastructure/storage"
	"video-scheduler/pkg/constants"
	apperrors "video-scheduler/pkg/errors"
	"video-scheduler/pkg/file"

	"github.com/google/uuid"
)

type VideoService struct {
	videos        domain.VideoRepository
	storage       domain.StorageStrategy
	archive       domain.StorageStrategy
	gateway       *CredentialGateway
	maxFileSize   int64
	allowedTypes  []string
	mirrorToDrive bool
}

func NewVideoService(videos domain.VideoRepository, store domain.StorageStrategy, gateway *CredentialGateway, maxFileSize int64, allowedTypes []string, mirrorToDrive bool) *VideoService {
	return &VideoService{
		videos:        videos,
		storage:       store,
		gateway:       gateway,
		maxFileSize:   maxFileSize,
		allowedTypes:  allowedTypes,
		mirrorToDrive: mirrorToDrive,
	}
}

// SetArchive adds a second blob store that receives a copy of every upload.
func (s *VideoService) SetArchive(archive domain.StorageStrategy) {
	s.archive = archive
}

// Upload receives the file, writes it to the blob store and records the
// video row. The row exists in uploading state for the duration of the
// transfer so an interrupted upload is visible, not silent.
func (s *VideoService) Upload(ctx context.Context, userID string, fileHeader *multipart.FileHeader, req dto.UploadVideoRequestDTO) (*entities.Video, error) {
	if fileHeader.Size > s.maxFileSize {
		return nil, apperrors.ErrInvalidState(nil).Msg("File exceeds the maximum allowed size")
	}
	mimeType := fileHeader.Header.Get("Content-Type")
	if !file.IsAllowedVideoType(mimeType, s.allowedTypes) {
		return nil, apperrors.ErrInvalidState(nil).Msg("Unsupported video type")
	}
	if req.Privacy == "" {
		req.Privacy = constants.PrivacyPrivate
	}
	if !constants.IsValidPrivacy(req.Privacy) {
		return nil, apperrors.ErrInvalidState(nil).Msg("Unknown privacy setting")
	}
	title := req.Title
	if title == "" {
		title = file.SafeFilename(fileHeader.Filename)
	}

	video := &entities.Video{
		VideoID:     uuid.New(),
		UserID:      userID,
		Title:       title,
		Description: req.Description,
		Tags:        req.Tags,
		Privacy:     req.Privacy,
		FileSize:    fileHeader.Size,
		MimeType:    mimeType,
		Status:      constants.VideoStatusUploading,
	}
	if err := s.videos.Create(ctx, video); err != nil {
		return nil, apperrors.ErrInternal(err).Msg("Could not record video")
	}

	src, err := fileHeader.Open()
	if err != nil {
		return s.failUpload(ctx, video.VideoID, "could not read uploaded file")
	}
	defer src.Close()

	stored, err := s.storage.Upload(ctx, src, map[string]string{
		"filename":     video.VideoID.String() + "_" + file.SafeFilename(fileHeader.Filename),
		"folder":       userID,
		"content_type": mimeType,
	})
	if err != nil {
		log.Printf("VideoService: blob write failed for %s: %v", video.VideoID, err)
		return s.failUpload(ctx, video.VideoID, "storage write failed")
	}

	video, err = mutateVideo(ctx, s.videos, video.VideoID, func(v *entities.Video) error {
		v.Status = constants.VideoStatusUploaded
		v.FilePath = stored.URL
		v.StorageFileID = stored.FileID
		v.StorageURL = stored.URL
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.archive != nil {
		s.archiveVideo(ctx, video, mimeType)
	}
	if s.mirrorToDrive && req.ChannelID != "" {
		s.mirrorVideo(ctx, video, req.ChannelID, mimeType)
	}
	return video, nil
}

// archiveVideo copies the stored file into the archive backend. A failed
// copy never fails the upload.
func (s *VideoService) archiveVideo(ctx context.Context, video *entities.Video, mimeType string) {
	src, err := os.Open(video.FilePath)
	if err != nil {
		log.Printf("VideoService: could not reopen %s for archive: %v", video.FilePath, err)
		return
	}
	defer src.Close()

	stored, err := s.archive.Upload(ctx, src, map[string]string{
		"filename":     video.VideoID.String(),
		"folder":       video.UserID,
		"content_type": mimeType,
	})
	if err != nil {
		log.Printf("VideoService: archive copy failed for %s: %v", video.VideoID, err)
		return
	}

	if _, err := mutateVideo(ctx, s.videos, video.VideoID, func(v *entities.Video) error {
		v.StorageFileID = stored.FileID
		v.StorageURL = stored.URL
		return nil
	}); err != nil {
		log.Printf("VideoService: could not record archive copy for %s: %v", video.VideoID, err)
	}
}

func (s *VideoService) failUpload(ctx context.Context, id uuid.UUID, reason string) (*entities.Video, error) {
	if _, err := mutateVideo(ctx, s.videos, id, func(v *entities.Video) error {
		v.Status = constants.VideoStatusFailed
		v.LastError = reason
		return nil
	}); err != nil {
		log.Printf("VideoService: could not mark video %s failed: %v", id, err)
	}
	return nil, apperrors.ErrInternal(nil).Msg(reason)
}

// mirrorVideo pushes an archival copy to the channel owner's Drive.
// A failed mirror never fails the upload.
func (s *VideoService) mirrorVideo(ctx context.Context, video *entities.Video, channelID, mimeType string) {
	id, err := uuid.Parse(channelID)
	if err != nil {
		log.Printf("VideoService: bad channel id %q for drive mirror: %v", channelID, err)
		return
	}
	client, err := s.gateway.HTTPClient(ctx, id)
	if err != nil {
		log.Printf("VideoService: no credentials for drive mirror of %s: %v", video.VideoID, err)
		return
	}

	src, err := os.Open(video.FilePath)
	if err != nil {
		log.Printf("VideoService: could not reopen %s for drive mirror: %v", video.FilePath, err)
		return
	}
	defer src.Close()

	drive := storage.NewDriveStorage(client, "")
	stored, err := drive.Upload(ctx, src, map[string]string{
		"filename":     video.Title,
		"content_type": mimeType,
	})
	if err != nil {
		log.Printf("VideoService: drive mirror failed for %s: %v", video.VideoID, err)
		return
	}

	if _, err := mutateVideo(ctx, s.videos, video.VideoID, func(v *entities.Video) error {
		v.StorageFileID = stored.FileID
		v.StorageURL = stored.URL
		return nil
	}); err != nil {
		log.Printf("VideoService: could not record drive mirror for %s: %v", video.VideoID, err)
	}
}

func (s *VideoService) Get(ctx context.Context, userID string, id uuid.UUID) (*entities.Video, error) {
	return s.videos.GetForUser(ctx, id, userID)
}

func (s *VideoService) List(ctx context.Context, userID, status string, offset, limit int) ([]entities.Video, error) {
	if status != "" && !constants.IsValidVideoStatus(status) {
		return nil, apperrors.ErrInvalidState(nil).Msg("Unknown status filter")
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.videos.List(ctx, userID, status, offset, limit)
}

func (s *VideoService) ListScheduled(ctx context.Context, userID string) ([]entities.Video, error) {
	return s.videos.ListScheduled(ctx, userID)
}

// UpdateMetadata edits title, description, tags and privacy. Edits are
// rejected while the video is being published or after it is gone.
func (s *VideoService) UpdateMetadata(ctx context.Context, userID string, id uuid.UUID, req dto.UpdateVideoRequestDTO) (*entities.Video, error) {
	video, err := s.videos.GetForUser(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	switch video.Status {
	case constants.VideoStatusProcessing, constants.VideoStatusDeleted:
		return nil, apperrors.ErrInvalidState(nil).Msg("Video cannot be edited in its current status")
	}

	if req.Privacy != nil && !constants.IsValidPrivacy(*req.Privacy) {
		return nil, apperrors.ErrInvalidState(nil).Msg("Unknown privacy setting")
	}

	if req.Title != nil {
		video.Title = *req.Title
	}
	if req.Description != nil {
		video.Description = *req.Description
	}
	if req.Tags != nil {
		video.Tags = *req.Tags
	}
	if req.Privacy != nil {
		video.Privacy = *req.Privacy
	}

	if err := s.videos.UpdateWithVersion(ctx, video); err != nil {
		return nil, err
	}
	return video, nil
}

// VideoToResponse converts the row for the API surface.
func VideoToResponse(v *entities.Video) dto.VideoResponse {
	return dto.VideoResponse{
		ID:                v.VideoID.String(),
		Title:             v.Title,
		Description:       v.Description,
		Tags:              v.TagList(),
		Privacy:           v.Privacy,
		FileSize:          v.FileSize,
		MimeType:          v.MimeType,
		Status:            v.Status,
		LastError:         v.LastError,
		StorageURL:        v.StorageURL,
		RemoteVideoID:     v.Schedule.RemoteVideoID,
		RemoteURL:         v.Schedule.RemoteURL,
		UploadScheduledAt: v.Schedule.UploadScheduledAt,
		DeleteScheduledAt: v.Schedule.DeleteScheduledAt,
		PublishedAt:       v.PublishedAt,
		CreatedAt:         v.CreatedAt,
		UpdatedAt:         v.UpdatedAt,
	}
}
