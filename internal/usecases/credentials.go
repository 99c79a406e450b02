package usecases

import (
	"context"
	"net/http"
	"time"

	"video-scheduler/internal/domain/entities"
	domain "video-scheduler/internal/domain/repositories"
	apperrors "video-scheduler/pkg/errors"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

// RefreshFunc exchanges an expired token for a fresh one.
type RefreshFunc func(ctx context.Context, conf *oauth2.Config, token *oauth2.Token) (*oauth2.Token, error)

func defaultRefresh(ctx context.Context, conf *oauth2.Config, token *oauth2.Token) (*oauth2.Token, error) {
	return conf.TokenSource(ctx, token).Token()
}

// CredentialGateway is the only component that reads or refreshes channel
// tokens. Everything downstream receives a ready-to-use Credentials value.
type CredentialGateway struct {
	channels domain.ChannelRepository
	oauth    *oauth2.Config
	refresh  RefreshFunc
	now      func() time.Time
}

func NewCredentialGateway(channels domain.ChannelRepository, oauth *oauth2.Config) *CredentialGateway {
	return &CredentialGateway{
		channels: channels,
		oauth:    oauth,
		refresh:  defaultRefresh,
		now:      time.Now,
	}
}

// SetRefresh overrides the token refresh call. Test seam only.
func (g *CredentialGateway) SetRefresh(refresh RefreshFunc) {
	g.refresh = refresh
}

// Credentials returns a live token bundle for the channel, refreshing and
// persisting it first when the stored one has expired.
func (g *CredentialGateway) Credentials(ctx context.Context, channelID uuid.UUID) (entities.Credentials, error) {
	channel, err := g.channels.GetActiveByID(ctx, channelID)
	if err != nil {
		return entities.Credentials{}, err
	}

	creds := entities.Credentials{
		ChannelID:    channel.ChannelID,
		AccessToken:  channel.AccessToken,
		RefreshToken: channel.RefreshToken,
		ExpiresAt:    channel.TokenExpiresAt,
		Scopes:       g.oauth.Scopes,
	}
	if !creds.Expired(g.now()) {
		return creds, nil
	}

	if creds.RefreshToken == "" {
		return entities.Credentials{}, apperrors.ErrAuthExpired(nil).Msg("No refresh token stored, channel must be reconnected")
	}

	fresh, err := g.refresh(ctx, g.oauth, &oauth2.Token{
		AccessToken:  creds.AccessToken,
		RefreshToken: creds.RefreshToken,
		Expiry:       creds.ExpiresAt,
		TokenType:    "Bearer",
	})
	if err != nil {
		return entities.Credentials{}, apperrors.ErrAuthExpired(err)
	}

	// Google often omits the refresh token on renewal; keep the stored one.
	refreshToken := fresh.RefreshToken
	if refreshToken == "" {
		refreshToken = creds.RefreshToken
	}

	if err := g.channels.UpdateTokens(ctx, channel.ChannelID, fresh.AccessToken, refreshToken, fresh.Expiry); err != nil {
		return entities.Credentials{}, apperrors.ErrInternal(err).Msg("Could not persist refreshed token")
	}

	creds.AccessToken = fresh.AccessToken
	creds.RefreshToken = refreshToken
	creds.ExpiresAt = fresh.Expiry
	return creds, nil
}

// HTTPClient builds an authenticated client for per-user storage backends.
func (g *CredentialGateway) HTTPClient(ctx context.Context, channelID uuid.UUID) (*http.Client, error) {
	creds, err := g.Credentials(ctx, channelID)
	if err != nil {
		return nil, err
	}
	token := &oauth2.Token{
		AccessToken:  creds.AccessToken,
		RefreshToken: creds.RefreshToken,
		Expiry:       creds.ExpiresAt,
		TokenType:    "Bearer",
	}
	return g.oauth.Client(ctx, token), nil
}
