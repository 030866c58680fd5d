package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/ccslab/sitin/internal/app/models/dto"
	"github.com/ccslab/sitin/internal/app/services"
	"github.com/ccslab/sitin/internal/middleware"
)

// AnnouncementController handles lab announcement endpoints
type AnnouncementController struct {
	announcementService *services.AnnouncementService
	logger              zerolog.Logger
}

// NewAnnouncementController creates a new AnnouncementController
func NewAnnouncementController(announcementService *services.AnnouncementService, logger zerolog.Logger) *AnnouncementController {
	return &AnnouncementController{
		announcementService: announcementService,
		logger:              logger,
	}
}

// ListActive returns the announcements currently shown to students
// @Summary List active announcements
// @Tags announcements
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]models.Announcement}
// @Router /announcements [get]
func (c *AnnouncementController) ListActive(ctx *gin.Context) {
	announcements, err := c.announcementService.ListActive(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: announcements, Timestamp: time.Now()})
}

// ListAll returns every announcement, hidden ones included
// @Summary List all announcements
// @Tags admin-announcements
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Announcement}
// @Router /admin/announcements [get]
func (c *AnnouncementController) ListAll(ctx *gin.Context) {
	announcements, err := c.announcementService.ListAll(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: announcements, Timestamp: time.Now()})
}

// Create posts a new announcement
// @Summary Post an announcement
// @Tags admin-announcements
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateAnnouncementRequest true "Announcement"
// @Success 201 {object} dto.APIResponse{data=models.Announcement}
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Router /admin/announcements [post]
func (c *AnnouncementController) Create(ctx *gin.Context) {
	var req dto.CreateAnnouncementRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	announcement, err := c.announcementService.Create(ctx, req.Title, req.Content)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Int64("announcementID", announcement.ID).Msg("Announcement posted")
	ctx.JSON(http.StatusCreated, dto.APIResponse{Data: announcement, Timestamp: time.Now()})
}

// Toggle flips an announcement's visibility
// @Summary Toggle announcement visibility
// @Tags admin-announcements
// @Produce json
// @Security BearerAuth
// @Param id path int true "Announcement ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 404 {object} dto.ErrorResponse "Announcement not found"
// @Router /admin/announcements/{id}/toggle [patch]
func (c *AnnouncementController) Toggle(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}

	if err := c.announcementService.Toggle(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Announcement visibility toggled"},
		Timestamp: time.Now(),
	})
}

// Delete removes an announcement
// @Summary Delete an announcement
// @Tags admin-announcements
// @Produce json
// @Security BearerAuth
// @Param id path int true "Announcement ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 404 {object} dto.ErrorResponse "Announcement not found"
// @Router /admin/announcements/{id} [delete]
func (c *AnnouncementController) Delete(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}

	if err := c.announcementService.Delete(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Announcement deleted"},
		Timestamp: time.Now(),
	})
}
