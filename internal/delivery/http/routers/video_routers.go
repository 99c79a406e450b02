package routers

import (
	"video-scheduler/internal/delivery/http/handlers"

	"github.com/gofiber/fiber/v2"
)

func SetupVideoRoutes(api fiber.Router, auth fiber.Handler, videoHandler *handlers.VideoHandler, dashboardHandler *handlers.DashboardHandler) {
	videos := api.Group("/videos", auth)
	videos.Post("/", videoHandler.Upload)
	videos.Get("/", videoHandler.List)
	videos.Get("/scheduled", videoHandler.ListScheduled)
	videos.Get("/:id", videoHandler.Get)
	videos.Patch("/:id", videoHandler.Update)
	videos.Post("/:id/schedule", videoHandler.ScheduleUpload)
	videos.Delete("/:id/schedule", videoHandler.CancelScheduledUpload)
	videos.Post("/:id/schedule-delete", videoHandler.ScheduleDelete)
	videos.Delete("/:id/schedule-delete", videoHandler.CancelScheduledDelete)

	api.Get("/dashboard/stats", auth, dashboardHandler.Stats)
}
