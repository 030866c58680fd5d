package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/ccslab/sitin/internal/app/models/dto"
	"github.com/ccslab/sitin/internal/app/services"
	"github.com/ccslab/sitin/internal/middleware"
)

// AdminSessionController handles administrator session management: the
// approval queue and the lifecycle transitions it feeds
type AdminSessionController struct {
	sessionService  *services.SessionService
	feedbackService *services.FeedbackService
	logger          zerolog.Logger
}

// NewAdminSessionController creates a new AdminSessionController
func NewAdminSessionController(sessionService *services.SessionService, feedbackService *services.FeedbackService, logger zerolog.Logger) *AdminSessionController {
	return &AdminSessionController{
		sessionService:  sessionService,
		feedbackService: feedbackService,
		logger:          logger,
	}
}

// ListPending returns requests awaiting an approval decision
// @Summary List pending session requests
// @Tags admin-sessions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.SitInSession}
// @Router /admin/sessions/pending [get]
func (c *AdminSessionController) ListPending(ctx *gin.Context) {
	sessions, err := c.sessionService.ListPending(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: sessions, Timestamp: time.Now()})
}

// ListActive returns approved and checked-in sessions
// @Summary List active sessions
// @Tags admin-sessions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.SitInSession}
// @Router /admin/sessions/active [get]
func (c *AdminSessionController) ListActive(ctx *gin.Context) {
	sessions, err := c.sessionService.ListActive(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: sessions, Timestamp: time.Now()})
}

// ListCurrent returns sessions with a student currently in the lab
// @Summary List current sit-ins
// @Tags admin-sessions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.SitInSession}
// @Router /admin/sessions/current [get]
func (c *AdminSessionController) ListCurrent(ctx *gin.Context) {
	sessions, err := c.sessionService.ListCurrentSitIns(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: sessions, Timestamp: time.Now()})
}

// GetSession returns one session record
// @Summary Get session detail
// @Tags admin-sessions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Session ID"
// @Success 200 {object} dto.APIResponse{data=models.SitInSession}
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Router /admin/sessions/{id} [get]
func (c *AdminSessionController) GetSession(ctx *gin.Context) {
	sessionID, ok := pathID(ctx)
	if !ok {
		return
	}

	session, err := c.sessionService.GetSession(ctx, sessionID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: session, Timestamp: time.Now()})
}

// Approve accepts a pending request and charges the student's quota
// @Summary Approve a session request
// @Tags admin-sessions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Session ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Failure 409 {object} dto.ErrorResponse "Session is not pending"
// @Router /admin/sessions/{id}/approve [post]
func (c *AdminSessionController) Approve(ctx *gin.Context) {
	c.transition(ctx, "Session approved", c.sessionService.Approve)
}

// Reject declines a pending request
// @Summary Reject a session request
// @Tags admin-sessions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Session ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Failure 409 {object} dto.ErrorResponse "Session is not pending"
// @Router /admin/sessions/{id}/reject [post]
func (c *AdminSessionController) Reject(ctx *gin.Context) {
	c.transition(ctx, "Session rejected", c.sessionService.Reject)
}

// CheckIn records a student's arrival for an approved session
// @Summary Check a student in
// @Tags admin-sessions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Session ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Failure 409 {object} dto.ErrorResponse "Session is not approved or already checked in"
// @Router /admin/sessions/{id}/check-in [post]
func (c *AdminSessionController) CheckIn(ctx *gin.Context) {
	c.transition(ctx, "Checked in", c.sessionService.CheckIn)
}

// CheckOut records a student's departure and completes the session
// @Summary Check a student out
// @Tags admin-sessions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Session ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Failure 409 {object} dto.ErrorResponse "Session has not checked in or already checked out"
// @Router /admin/sessions/{id}/check-out [post]
func (c *AdminSessionController) CheckOut(ctx *gin.Context) {
	c.transition(ctx, "Checked out", c.sessionService.CheckOut)
}

// Complete force-completes an approved or checked-in session
// @Summary Force-complete a session
// @Tags admin-sessions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Session ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Failure 409 {object} dto.ErrorResponse "Session is not approved or checked in"
// @Router /admin/sessions/{id}/complete [post]
func (c *AdminSessionController) Complete(ctx *gin.Context) {
	c.transition(ctx, "Session completed", c.sessionService.Complete)
}

// EndAllForStudent force-completes every active session of one student
// @Summary End all active sessions of a student
// @Tags admin-sessions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Router /admin/students/{id}/end-sessions [post]
func (c *AdminSessionController) EndAllForStudent(ctx *gin.Context) {
	studentID, ok := pathID(ctx)
	if !ok {
		return
	}

	ended, err := c.sessionService.EndAllActiveForStudent(ctx, studentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Int64("studentID", studentID).Int64("ended", ended).Msg("Ended active sessions")
	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      gin.H{"ended": ended},
		Timestamp: time.Now(),
	})
}

// ListFeedback returns all submitted session feedback
// @Summary List session feedback
// @Tags admin-sessions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Feedback}
// @Router /admin/feedback [get]
func (c *AdminSessionController) ListFeedback(ctx *gin.Context) {
	feedback, err := c.feedbackService.List(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: feedback, Timestamp: time.Now()})
}

// transition runs one ID-addressed lifecycle operation and writes the
// standard success envelope
func (c *AdminSessionController) transition(ctx *gin.Context, message string, op func(ctx context.Context, sessionID int64) error) {
	sessionID, ok := pathID(ctx)
	if !ok {
		return
	}

	if err := op(ctx, sessionID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: message},
		Timestamp: time.Now(),
	})
}
