package handlers

import (
	"video-scheduler/internal/delivery/http/middleware"
	"video-scheduler/internal/domain/dto"
	"video-scheduler/internal/usecases"
	apperrors "video-scheduler/pkg/errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ChannelHandler struct {
	channelService *usecases.ChannelService
}

func NewChannelHandler(channelService *usecases.ChannelService) *ChannelHandler {
	return &ChannelHandler{channelService: channelService}
}

// AuthURL
//
// @Summary      Get Consent URL
// @Description  Returns the Google consent page URL for connecting a channel
// @Tags         Channels
// @Produce      json
// @Param        state query string false "Opaque state echoed back on callback"
// @Success      200 {object} map[string]string
// @Router       /youtube/auth-url [get]
func (h *ChannelHandler) AuthURL(c *fiber.Ctx) error {
	state := c.Query("state", "state")
	return c.JSON(fiber.Map{
		"auth_url": h.channelService.AuthURL(state),
	})
}

// ExchangeCode
//
// @Summary      Connect Channel
// @Description  Exchanges the authorization code, stores the channel and returns a session token
// @Tags         Channels
// @Accept       json
// @Produce      json
// @Param        body body dto.ExchangeTokenRequestDTO true "Code and user id"
// @Success      200 {object} dto.ExchangeTokenResponse
// @Failure      401 {object} dto.ErrorResponse
// @Router       /youtube/callback [post]
func (h *ChannelHandler) ExchangeCode(c *fiber.Ctx) error {
	var req dto.ExchangeTokenRequestDTO
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(dto.ErrorResponse{Error: "invalid_state", Message: "Malformed body"})
	}

	channel, session, err := h.channelService.ExchangeCode(c.Context(), req)
	if err != nil {
		return apperrors.HandleError(c, err)
	}
	return c.JSON(dto.ExchangeTokenResponse{
		SessionToken: session,
		Channel:      usecases.ChannelToResponse(channel),
		ExpiresIn:    86400,
	})
}

// List
//
// @Summary      List Connected Channels
// @Tags         Channels
// @Produce      json
// @Success      200 {array} dto.ChannelResponse
// @Router       /channels [get]
func (h *ChannelHandler) List(c *fiber.Ctx) error {
	channels, err := h.channelService.List(c.Context(), middleware.UserID(c))
	if err != nil {
		return apperrors.HandleError(c, err)
	}

	out := make([]dto.ChannelResponse, 0, len(channels))
	for i := range channels {
		out = append(out, usecases.ChannelToResponse(&channels[i]))
	}
	return c.JSON(out)
}

// Refresh
//
// @Summary      Refresh Channel Credentials
// @Description  Renews the stored token pair if it has expired
// @Tags         Channels
// @Produce      json
// @Param        id path string true "Channel ID"
// @Success      200 {object} map[string]interface{}
// @Failure      401 {object} dto.ErrorResponse
// @Router       /channels/{id}/refresh [post]
func (h *ChannelHandler) Refresh(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(dto.ErrorResponse{Error: "invalid_state", Message: "Invalid channel id"})
	}

	expiresAt, err := h.channelService.Refresh(c.Context(), middleware.UserID(c), id)
	if err != nil {
		return apperrors.HandleError(c, err)
	}
	return c.JSON(fiber.Map{"status": "ok", "token_expires_at": expiresAt})
}

// Disconnect
//
// @Summary      Disconnect Channel
// @Description  Deactivates the channel; stored rows are kept
// @Tags         Channels
// @Produce      json
// @Param        id path string true "Channel ID"
// @Success      200 {object} map[string]string
// @Failure      404 {object} dto.ErrorResponse
// @Router       /channels/{id} [delete]
func (h *ChannelHandler) Disconnect(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(dto.ErrorResponse{Error: "invalid_state", Message: "Invalid channel id"})
	}

	if err := h.channelService.Disconnect(c.Context(), middleware.UserID(c), id); err != nil {
		return apperrors.HandleError(c, err)
	}
	return c.JSON(fiber.Map{"status": "ok"})
}
