package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/ccslab/sitin/internal/app/models/dto"
	"github.com/ccslab/sitin/internal/app/repositories"
	"github.com/ccslab/sitin/internal/app/services"
	"github.com/ccslab/sitin/internal/middleware"
)

// StatsController serves the administrator dashboard aggregates and the
// public programming language catalog
type StatsController struct {
	statsService *services.StatsService
	languageRepo *repositories.LanguageRepository
	logger       zerolog.Logger
}

// NewStatsController creates a new StatsController
func NewStatsController(statsService *services.StatsService, languageRepo *repositories.LanguageRepository, logger zerolog.Logger) *StatsController {
	return &StatsController{
		statsService: statsService,
		languageRepo: languageRepo,
		logger:       logger,
	}
}

// GetUsageStats returns the dashboard aggregates
// @Summary Get usage statistics
// @Description Returns student counts, session counts by lifecycle stage, language and lab usage shares, feedback aggregates and the recent activity feed
// @Tags admin-stats
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.UsageStats}
// @Router /admin/stats [get]
func (c *StatsController) GetUsageStats(ctx *gin.Context) {
	stats, err := c.statsService.UsageStats(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: stats, Timestamp: time.Now()})
}

// ListLanguages returns the programming language catalog
// @Summary List programming languages
// @Tags languages
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]models.ProgrammingLanguage}
// @Router /languages [get]
func (c *StatsController) ListLanguages(ctx *gin.Context) {
	languages, err := c.languageRepo.List(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: languages, Timestamp: time.Now()})
}
