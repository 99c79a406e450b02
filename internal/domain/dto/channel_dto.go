package dto

type ExchangeTokenRequestDTO struct {
	Code   string `json:"code"`
	UserID string `json:"user_id"`
}

type ChannelResponse struct {
	ID              string `json:"id"`
	RemoteChannelID string `json:"remote_channel_id"`
	Title           string `json:"title"`
	ThumbnailURL    string `json:"thumbnail_url,omitempty"`
	SubscriberCount uint64 `json:"subscriber_count"`
	ViewCount       uint64 `json:"view_count"`
	VideoCount      uint64 `json:"video_count"`
	IsActive        bool   `json:"is_active"`
}

type ExchangeTokenResponse struct {
	SessionToken string          `json:"session_token"`
	Channel      ChannelResponse `json:"channel"`
	ExpiresIn    int             `json:"expires_in"`
}
