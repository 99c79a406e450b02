package handlers

import (
	"strconv"

	"video-scheduler/internal/delivery/http/middleware"
	"video-scheduler/internal/domain/dto"
	"video-scheduler/internal/usecases"
	apperrors "video-scheduler/pkg/errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type VideoHandler struct {
	videoService     *usecases.VideoService
	lifecycleService *usecases.LifecycleService
}

func NewVideoHandler(videoService *usecases.VideoService, lifecycleService *usecases.LifecycleService) *VideoHandler {
	return &VideoHandler{
		videoService:     videoService,
		lifecycleService: lifecycleService,
	}
}

// Upload
//
// @Summary      Upload Video
// @Description  Receives a video file and stores it, ready for scheduling
// @Tags         Videos
// @Accept       multipart/form-data
// @Produce      json
// @Param        file        formData  file   true  "Video file"
// @Param        title       formData  string false "Title"
// @Param        description formData  string false "Description"
// @Param        tags        formData  string false "Comma separated tags"
// @Param        privacy     formData  string false "private, unlisted or public"
// @Param        channel_id  formData  string false "Channel for Drive mirroring"
// @Success      201 {object} dto.VideoResponse
// @Failure      400 {object} dto.ErrorResponse
// @Router       /videos [post]
func (h *VideoHandler) Upload(c *fiber.Ctx) error {
	var req dto.UploadVideoRequestDTO
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(dto.ErrorResponse{Error: "invalid_state", Message: "Malformed form data"})
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(400).JSON(dto.ErrorResponse{Error: "invalid_state", Message: "No file in request"})
	}

	video, err := h.videoService.Upload(c.Context(), middleware.UserID(c), fileHeader, req)
	if err != nil {
		return apperrors.HandleError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(usecases.VideoToResponse(video))
}

// List
//
// @Summary      List Videos
// @Description  Lists the caller's videos, newest first
// @Tags         Videos
// @Produce      json
// @Param        status query string false "Restrict to one status"
// @Param        offset query int false "Offset"
// @Param        limit  query int false "Limit"
// @Success      200 {object} dto.ListVideosResponse
// @Router       /videos [get]
func (h *VideoHandler) List(c *fiber.Ctx) error {
	status := c.Query("status")
	offset, _ := strconv.Atoi(c.Query("offset", "0"))
	limit, _ := strconv.Atoi(c.Query("limit", "50"))

	videos, err := h.videoService.List(c.Context(), middleware.UserID(c), status, offset, limit)
	if err != nil {
		return apperrors.HandleError(c, err)
	}

	out := make([]dto.VideoResponse, 0, len(videos))
	for i := range videos {
		out = append(out, usecases.VideoToResponse(&videos[i]))
	}
	return c.JSON(dto.ListVideosResponse{Videos: out, Count: len(out)})
}

// Get
//
// @Summary      Get Video
// @Tags         Videos
// @Produce      json
// @Param        id path string true "Video ID"
// @Success      200 {object} dto.VideoResponse
// @Failure      404 {object} dto.ErrorResponse
// @Router       /videos/{id} [get]
func (h *VideoHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(dto.ErrorResponse{Error: "invalid_state", Message: "Invalid video id"})
	}

	video, err := h.videoService.Get(c.Context(), middleware.UserID(c), id)
	if err != nil {
		return apperrors.HandleError(c, err)
	}
	return c.JSON(usecases.VideoToResponse(video))
}

// Update
//
// @Summary      Update Video Metadata
// @Tags         Videos
// @Accept       json
// @Produce      json
// @Param        id   path string true "Video ID"
// @Param        body body dto.UpdateVideoRequestDTO true "Fields to update"
// @Success      200 {object} dto.VideoResponse
// @Failure      400 {object} dto.ErrorResponse
// @Router       /videos/{id} [patch]
func (h *VideoHandler) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(dto.ErrorResponse{Error: "invalid_state", Message: "Invalid video id"})
	}

	var req dto.UpdateVideoRequestDTO
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(dto.ErrorResponse{Error: "invalid_state", Message: "Malformed body"})
	}

	video, err := h.videoService.UpdateMetadata(c.Context(), middleware.UserID(c), id, req)
	if err != nil {
		return apperrors.HandleError(c, err)
	}
	return c.JSON(usecases.VideoToResponse(video))
}

// ScheduleUpload
//
// @Summary      Schedule Publish
// @Description  Books a future publish of the video to a connected channel
// @Tags         Schedule
// @Accept       json
// @Produce      json
// @Param        id   path string true "Video ID"
// @Param        body body dto.ScheduleUploadRequestDTO true "Channel and time"
// @Success      200 {object} dto.ScheduleResponse
// @Failure      400 {object} dto.ErrorResponse
// @Failure      409 {object} dto.ErrorResponse
// @Router       /videos/{id}/schedule [post]
func (h *VideoHandler) ScheduleUpload(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(dto.ErrorResponse{Error: "invalid_state", Message: "Invalid video id"})
	}

	var req dto.ScheduleUploadRequestDTO
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(dto.ErrorResponse{Error: "invalid_state", Message: "Malformed body"})
	}

	video, err := h.lifecycleService.ScheduleUpload(c.Context(), middleware.UserID(c), id, req)
	if err != nil {
		return apperrors.HandleError(c, err)
	}
	return c.JSON(dto.ScheduleResponse{
		Status:      video.Status,
		VideoID:     video.VideoID.String(),
		JobID:       video.Schedule.UploadJobID,
		ScheduledAt: req.ScheduledAt,
	})
}

// CancelScheduledUpload
//
// @Summary      Cancel Scheduled Publish
// @Tags         Schedule
// @Produce      json
// @Param        id path string true "Video ID"
// @Success      200 {object} dto.ScheduleResponse
// @Failure      400 {object} dto.ErrorResponse
// @Router       /videos/{id}/schedule [delete]
func (h *VideoHandler) CancelScheduledUpload(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(dto.ErrorResponse{Error: "invalid_state", Message: "Invalid video id"})
	}

	video, err := h.lifecycleService.CancelUpload(c.Context(), middleware.UserID(c), id)
	if err != nil {
		return apperrors.HandleError(c, err)
	}
	return c.JSON(dto.ScheduleResponse{
		Status:  video.Status,
		VideoID: video.VideoID.String(),
		Message: "Publish cancelled",
	})
}

// ScheduleDelete
//
// @Summary      Schedule Takedown
// @Description  Books a future deletion of the published remote video
// @Tags         Schedule
// @Accept       json
// @Produce      json
// @Param        id   path string true "Video ID"
// @Param        body body dto.ScheduleDeleteRequestDTO true "Time"
// @Success      200 {object} dto.ScheduleResponse
// @Failure      400 {object} dto.ErrorResponse
// @Router       /videos/{id}/schedule-delete [post]
func (h *VideoHandler) ScheduleDelete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(dto.ErrorResponse{Error: "invalid_state", Message: "Invalid video id"})
	}

	var req dto.ScheduleDeleteRequestDTO
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(dto.ErrorResponse{Error: "invalid_state", Message: "Malformed body"})
	}

	video, err := h.lifecycleService.ScheduleDelete(c.Context(), middleware.UserID(c), id, req)
	if err != nil {
		return apperrors.HandleError(c, err)
	}
	return c.JSON(dto.ScheduleResponse{
		Status:      video.Status,
		VideoID:     video.VideoID.String(),
		JobID:       video.Schedule.DeleteJobID,
		ScheduledAt: req.ScheduledAt,
	})
}

// CancelScheduledDelete
//
// @Summary      Cancel Scheduled Takedown
// @Tags         Schedule
// @Produce      json
// @Param        id path string true "Video ID"
// @Success      200 {object} dto.ScheduleResponse
// @Failure      400 {object} dto.ErrorResponse
// @Router       /videos/{id}/schedule-delete [delete]
func (h *VideoHandler) CancelScheduledDelete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(dto.ErrorResponse{Error: "invalid_state", Message: "Invalid video id"})
	}

	video, err := h.lifecycleService.CancelDelete(c.Context(), middleware.UserID(c), id)
	if err != nil {
		return apperrors.HandleError(c, err)
	}
	return c.JSON(dto.ScheduleResponse{
		Status:  video.Status,
		VideoID: video.VideoID.String(),
		Message: "Deletion cancelled",
	})
}

// ListScheduled
//
// @Summary      List Scheduled Videos
// @Tags         Schedule
// @Produce      json
// @Success      200 {object} dto.ListVideosResponse
// @Router       /videos/scheduled [get]
func (h *VideoHandler) ListScheduled(c *fiber.Ctx) error {
	videos, err := h.videoService.ListScheduled(c.Context(), middleware.UserID(c))
	if err != nil {
		return apperrors.HandleError(c, err)
	}

	out := make([]dto.VideoResponse, 0, len(videos))
	for i := range videos {
		out = append(out, usecases.VideoToResponse(&videos[i]))
	}
	return c.JSON(dto.ListVideosResponse{Videos: out, Count: len(out)})
}
