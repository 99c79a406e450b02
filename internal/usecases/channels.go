package usecases

import (
	"context"
	"time"

	"video-scheduler/internal/domain/dto"
	"video-scheduler/internal/domain/entities"
	domain "video-scheduler/internal/domain/repositories"
	apperrors "video-scheduler/pkg/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

const sessionTTL = 24 * time.Hour

// ChannelService drives the Google connect flow and channel management.
type ChannelService struct {
	channels  domain.ChannelRepository
	oauth     *oauth2.Config
	source    domain.ChannelSource
	gateway   *CredentialGateway
	jwtSecret string
	now       func() time.Time
}

func NewChannelService(channels domain.ChannelRepository, oauth *oauth2.Config, source domain.ChannelSource, gateway *CredentialGateway, jwtSecret string) *ChannelService {
	return &ChannelService{
		channels:  channels,
		oauth:     oauth,
		source:    source,
		gateway:   gateway,
		jwtSecret: jwtSecret,
		now:       time.Now,
	}
}

// AuthURL builds the consent page URL. Offline access plus forced consent so
// Google hands back a refresh token even for repeat connections.
func (s *ChannelService) AuthURL(state string) string {
	return s.oauth.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"))
}

// ExchangeCode turns an authorization code into a connected channel and a
// session token for the API.
func (s *ChannelService) ExchangeCode(ctx context.Context, req dto.ExchangeTokenRequestDTO) (*entities.Channel, string, error) {
	if req.Code == "" || req.UserID == "" {
		return nil, "", apperrors.ErrInvalidState(nil).Msg("Code and user id are required")
	}

	token, err := s.oauth.Exchange(ctx, req.Code)
	if err != nil {
		return nil, "", apperrors.ErrAuthExpired(err).Msg("Authorization code rejected")
	}

	info, err := s.source.ChannelInfo(ctx, token)
	if err != nil {
		return nil, "", err
	}

	channel := &entities.Channel{
		ChannelID:       uuid.New(),
		UserID:          req.UserID,
		RemoteChannelID: info.RemoteChannelID,
		Title:           info.Title,
		ThumbnailURL:    info.ThumbnailURL,
		SubscriberCount: info.SubscriberCount,
		ViewCount:       info.ViewCount,
		VideoCount:      info.VideoCount,
		AccessToken:     token.AccessToken,
		RefreshToken:    token.RefreshToken,
		TokenExpiresAt:  token.Expiry,
		IsActive:        true,
	}
	if err := s.channels.Upsert(ctx, channel); err != nil {
		return nil, "", apperrors.ErrInternal(err).Msg("Could not store channel")
	}

	session, err := s.issueSession(req.UserID, channel.ChannelID)
	if err != nil {
		return nil, "", err
	}
	return channel, session, nil
}

func (s *ChannelService) issueSession(userID string, channelID uuid.UUID) (string, error) {
	claims := jwt.MapClaims{
		"user_id":    userID,
		"channel_id": channelID.String(),
		"iat":        s.now().Unix(),
		"exp":        s.now().Add(sessionTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", apperrors.ErrInternal(err).Msg("Could not sign session token")
	}
	return signed, nil
}

func (s *ChannelService) List(ctx context.Context, userID string) ([]entities.Channel, error) {
	return s.channels.ListByUser(ctx, userID)
}

// Refresh forces a credential check for the channel, renewing and persisting
// the token pair if it has expired. Returns the new expiry.
func (s *ChannelService) Refresh(ctx context.Context, userID string, channelID uuid.UUID) (time.Time, error) {
	channel, err := s.channels.GetActiveByID(ctx, channelID)
	if err != nil {
		return time.Time{}, err
	}
	if channel.UserID != userID {
		return time.Time{}, apperrors.ErrNotFound(nil).Msg("Channel not found")
	}
	creds, err := s.gateway.Credentials(ctx, channelID)
	if err != nil {
		return time.Time{}, err
	}
	return creds.ExpiresAt, nil
}

// Disconnect deactivates the channel. Videos already scheduled against it
// will fail at credential lookup, which is the intended behavior.
func (s *ChannelService) Disconnect(ctx context.Context, userID string, channelID uuid.UUID) error {
	return s.channels.Deactivate(ctx, channelID, userID)
}

// ChannelToResponse converts the row for the API surface.
func ChannelToResponse(c *entities.Channel) dto.ChannelResponse {
	return dto.ChannelResponse{
		ID:              c.ChannelID.String(),
		RemoteChannelID: c.RemoteChannelID,
		Title:           c.Title,
		ThumbnailURL:    c.ThumbnailURL,
		SubscriberCount: c.SubscriberCount,
		ViewCount:       c.ViewCount,
		VideoCount:      c.VideoCount,
		IsActive:        c.IsActive,
	}
}
