package platform

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"video-scheduler/internal/domain/entities"
	"video-scheduler/internal/domain/repositories"
	apperrors "video-scheduler/pkg/errors"

	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

const uploadChunkSize = 1 << 20 // 1 MB resumable chunks

// YouTubeAdapter implements repositories.MediaPlatform and
// repositories.ChannelSource against the YouTube Data API v3.
type YouTubeAdapter struct {
	oauth *oauth2.Config
}

func NewYouTubeAdapter(oauth *oauth2.Config) *YouTubeAdapter {
	return &YouTubeAdapter{oauth: oauth}
}

func (y *YouTubeAdapter) service(ctx context.Context, token *oauth2.Token) (*youtube.Service, error) {
	client := y.oauth.Client(ctx, token)
	service, err := youtube.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, apperrors.ErrInternal(err).Msg("Could not build YouTube client")
	}
	return service, nil
}

func tokenFrom(creds entities.Credentials) *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  creds.AccessToken,
		RefreshToken: creds.RefreshToken,
		Expiry:       creds.ExpiresAt,
		TokenType:    "Bearer",
	}
}

func (y *YouTubeAdapter) Upload(ctx context.Context, filePath string, meta repositories.UploadMetadata, creds entities.Credentials) (repositories.UploadResult, error) {
	service, err := y.service(ctx, tokenFrom(creds))
	if err != nil {
		return repositories.UploadResult{}, err
	}

	f, err := os.Open(filePath)
	if err != nil {
		return repositories.UploadResult{}, apperrors.ErrInternal(err).Msg("Video file is not readable")
	}
	defer f.Close()

	video := &youtube.Video{
		Snippet: &youtube.VideoSnippet{
			Title:       meta.Title,
			Description: meta.Description,
			Tags:        meta.Tags,
			CategoryId:  "22",
		},
		Status: &youtube.VideoStatus{
			PrivacyStatus:           meta.Privacy,
			SelfDeclaredMadeForKids: false,
		},
	}

	call := service.Videos.Insert([]string{"snippet", "status"}, video).
		Media(f, googleapi.ChunkSize(uploadChunkSize), googleapi.ContentType(meta.MimeType)).
		Context(ctx)

	inserted, err := call.Do()
	if err != nil {
		return repositories.UploadResult{}, classify(err)
	}

	return repositories.UploadResult{
		RemoteID:  inserted.Id,
		RemoteURL: fmt.Sprintf("https://www.youtube.com/watch?v=%s", inserted.Id),
	}, nil
}

func (y *YouTubeAdapter) Delete(ctx context.Context, remoteID string, creds entities.Credentials) error {
	service, err := y.service(ctx, tokenFrom(creds))
	if err != nil {
		return err
	}
	if err := service.Videos.Delete(remoteID).Context(ctx).Do(); err != nil {
		return classify(err)
	}
	return nil
}

func (y *YouTubeAdapter) ChannelInfo(ctx context.Context, token *oauth2.Token) (*repositories.RemoteChannelInfo, error) {
	service, err := y.service(ctx, token)
	if err != nil {
		return nil, err
	}

	resp, err := service.Channels.List([]string{"snippet", "statistics"}).
		Mine(true).
		Context(ctx).
		Do()
	if err != nil {
		return nil, classify(err)
	}
	if len(resp.Items) == 0 {
		return nil, apperrors.ErrNotFound(nil).Msg("No channel for this account")
	}

	item := resp.Items[0]
	info := &repositories.RemoteChannelInfo{
		RemoteChannelID: item.Id,
		Title:           item.Snippet.Title,
	}
	if item.Snippet.Thumbnails != nil && item.Snippet.Thumbnails.Default != nil {
		info.ThumbnailURL = item.Snippet.Thumbnails.Default.Url
	}
	if item.Statistics != nil {
		info.SubscriberCount = item.Statistics.SubscriberCount
		info.ViewCount = item.Statistics.ViewCount
		info.VideoCount = item.Statistics.VideoCount
	}
	return info, nil
}

// classify maps a YouTube API failure onto the scheduler error taxonomy.
// Network-level failures with no HTTP status are assumed transient.
func classify(err error) error {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return apperrors.ErrTransientRemote(err)
	}

	switch {
	case gerr.Code == http.StatusNotFound:
		return apperrors.ErrNotFound(err).Msg("Remote video not found")
	case gerr.Code == http.StatusUnauthorized:
		return apperrors.ErrAuthExpired(err)
	case gerr.Code == http.StatusForbidden:
		for _, e := range gerr.Errors {
			if strings.Contains(e.Reason, "rateLimit") || e.Reason == "userRateLimitExceeded" {
				return apperrors.ErrTransientRemote(err)
			}
		}
		return apperrors.ErrPermanentRemote(err)
	case gerr.Code == http.StatusTooManyRequests || gerr.Code >= 500:
		return apperrors.ErrTransientRemote(err)
	default:
		return apperrors.ErrPermanentRemote(err)
	}
}
