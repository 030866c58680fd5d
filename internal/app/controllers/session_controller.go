package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/ccslab/sitin/internal/app/models/dto"
	"github.com/ccslab/sitin/internal/app/services"
	"github.com/ccslab/sitin/internal/middleware"
)

// SessionController handles the student-facing sit-in session endpoints
type SessionController struct {
	sessionService  *services.SessionService
	feedbackService *services.FeedbackService
	logger          zerolog.Logger
}

// NewSessionController creates a new SessionController
func NewSessionController(sessionService *services.SessionService, feedbackService *services.FeedbackService, logger zerolog.Logger) *SessionController {
	return &SessionController{
		sessionService:  sessionService,
		feedbackService: feedbackService,
		logger:          logger,
	}
}

// RequestSession handles a new sit-in request
// @Summary Request a sit-in session
// @Description Submits a sit-in request in the pending state. The request is rejected when the student's session quota is exhausted.
// @Tags sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateSessionRequest true "Session request"
// @Success 201 {object} dto.APIResponse{data=models.SitInSession} "Session requested"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 409 {object} dto.ErrorResponse "Session quota exceeded"
// @Router /sessions [post]
func (c *SessionController) RequestSession(ctx *gin.Context) {
	var req dto.CreateSessionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid session request payload")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	studentID := middleware.UserID(ctx)
	session, err := c.sessionService.RequestSession(ctx, studentID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{Data: session, Timestamp: time.Now()})
}

// ListMySessions returns the authenticated student's session history
// @Summary List own sessions
// @Tags sessions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.SitInSession}
// @Router /sessions [get]
func (c *SessionController) ListMySessions(ctx *gin.Context) {
	sessions, err := c.sessionService.ListStudentSessions(ctx, middleware.UserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: sessions, Timestamp: time.Now()})
}

// CancelSession withdraws the student's own session
// @Summary Cancel own session
// @Description Cancels a session from any pre-terminal state. The quota charge is released when the session had been approved.
// @Tags sessions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Session ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 403 {object} dto.ErrorResponse "Session belongs to another student"
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Failure 409 {object} dto.ErrorResponse "Session already terminal"
// @Router /sessions/{id}/cancel [post]
func (c *SessionController) CancelSession(ctx *gin.Context) {
	sessionID, ok := pathID(ctx)
	if !ok {
		return
	}

	if err := c.sessionService.Cancel(ctx, sessionID, middleware.UserID(ctx)); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Session cancelled"},
		Timestamp: time.Now(),
	})
}

// SubmitFeedback records the student's rating for one of their sessions
// @Summary Submit session feedback
// @Description Saves a rating and optional comments. Resubmitting replaces the earlier feedback for the same session.
// @Tags sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Session ID"
// @Param request body dto.SubmitFeedbackRequest true "Feedback"
// @Success 200 {object} dto.APIResponse{data=models.Feedback}
// @Failure 400 {object} dto.ErrorResponse "Invalid rating"
// @Failure 403 {object} dto.ErrorResponse "Session belongs to another student"
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Router /sessions/{id}/feedback [post]
func (c *SessionController) SubmitFeedback(ctx *gin.Context) {
	sessionID, ok := pathID(ctx)
	if !ok {
		return
	}

	var req dto.SubmitFeedbackRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	feedback, err := c.feedbackService.Submit(ctx, sessionID, middleware.UserID(ctx), req.Rating, req.Comments)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: feedback, Timestamp: time.Now()})
}

// pathID parses the :id path parameter, writing the error response itself
// when the value is not a number
func pathID(ctx *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid ID parameter").WithField("id")))
		return 0, false
	}
	return id, true
}
