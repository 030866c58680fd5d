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

// StudentController handles student profile and administrator roster
// operations
type StudentController struct {
	studentService *services.StudentService
	logger         zerolog.Logger
}

// NewStudentController creates a new StudentController
func NewStudentController(studentService *services.StudentService, logger zerolog.Logger) *StudentController {
	return &StudentController{
		studentService: studentService,
		logger:         logger,
	}
}

// GetProfile returns the authenticated student's profile
// @Summary Get own profile
// @Tags students
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=models.Student}
// @Router /profile [get]
func (c *StudentController) GetProfile(ctx *gin.Context) {
	student, err := c.studentService.GetStudent(ctx, middleware.UserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: student, Timestamp: time.Now()})
}

// UpdateProfile edits the authenticated student's profile
// @Summary Update own profile
// @Description Updates the editable profile fields. A course change re-tiers the session quota ceiling.
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateProfileRequest true "Profile fields"
// @Success 200 {object} dto.APIResponse{data=models.Student}
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 409 {object} dto.ErrorResponse "Email already exists"
// @Router /profile [put]
func (c *StudentController) UpdateProfile(ctx *gin.Context) {
	var req dto.UpdateProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	student, err := c.studentService.UpdateProfile(ctx, middleware.UserID(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: student, Timestamp: time.Now()})
}

// ListStudents returns the roster with live active-session counts
// @Summary List students
// @Tags admin-students
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.StudentSummary}
// @Router /admin/students [get]
func (c *StudentController) ListStudents(ctx *gin.Context) {
	students, err := c.studentService.ListStudents(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: students, Timestamp: time.Now()})
}

// GetStudentDetail returns one student with quota and active sessions
// @Summary Get student detail
// @Tags admin-students
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Success 200 {object} dto.APIResponse{data=dto.StudentDetail}
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /admin/students/{id} [get]
func (c *StudentController) GetStudentDetail(ctx *gin.Context) {
	studentID, ok := pathID(ctx)
	if !ok {
		return
	}

	detail, err := c.studentService.GetStudentDetail(ctx, studentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: detail, Timestamp: time.Now()})
}

// DeleteStudent removes a student account
// @Summary Delete a student
// @Tags admin-students
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /admin/students/{id} [delete]
func (c *StudentController) DeleteStudent(ctx *gin.Context) {
	studentID, ok := pathID(ctx)
	if !ok {
		return
	}

	if err := c.studentService.DeleteStudent(ctx, studentID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Int64("studentID", studentID).Msg("Student deleted")
	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Student deleted"},
		Timestamp: time.Now(),
	})
}

// ReconcileQuotas runs the quota maintenance pass
// @Summary Reconcile quota ledger
// @Description Corrects quota ceilings that disagree with the course tier and recomputes consumption counters from the session table
// @Tags admin-maintenance
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.QuotaReconciliation}
// @Router /admin/maintenance/reconcile-quotas [post]
func (c *StudentController) ReconcileQuotas(ctx *gin.Context) {
	result, err := c.studentService.ReconcileQuotas(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: result, Timestamp: time.Now()})
}
