package handlers

import (
	"video-scheduler/internal/delivery/http/middleware"
	"video-scheduler/internal/usecases"
	apperrors "video-scheduler/pkg/errors"

	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	dashboardService *usecases.DashboardService
}

func NewDashboardHandler(dashboardService *usecases.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// Stats
//
// @Summary      Dashboard Stats
// @Description  Counts per status, storage footprint and upcoming actions
// @Tags         Dashboard
// @Produce      json
// @Success      200 {object} dto.DashboardStatsResponse
// @Router       /dashboard/stats [get]
func (h *DashboardHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.dashboardService.Stats(c.Context(), middleware.UserID(c))
	if err != nil {
		return apperrors.HandleError(c, err)
	}
	return c.JSON(stats)
}
