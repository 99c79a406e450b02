package routers

import (
	"video-scheduler/internal/delivery/http/handlers"

	"github.com/gofiber/fiber/v2"
)

func SetupChannelRoutes(api fiber.Router, auth fiber.Handler, channelHandler *handlers.ChannelHandler) {
	// The connect flow runs before a session exists.
	api.Get("/youtube/auth-url", channelHandler.AuthURL)
	api.Post("/youtube/callback", channelHandler.ExchangeCode)

	channels := api.Group("/channels", auth)
	channels.Get("/", channelHandler.List)
	channels.Post("/:id/refresh", channelHandler.Refresh)
	channels.Delete("/:id", channelHandler.Disconnect)
}
