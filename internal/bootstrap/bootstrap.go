// Package bootstrap wires configuration, storage and the HTTP surface
package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/ccslab/sitin/internal/app/controllers"
	appMigrations "github.com/ccslab/sitin/internal/app/migrations"
	appRepos "github.com/ccslab/sitin/internal/app/repositories"
	appRoutes "github.com/ccslab/sitin/internal/app/routes"
	appServices "github.com/ccslab/sitin/internal/app/services"
	"github.com/ccslab/sitin/internal/config"
	"github.com/ccslab/sitin/internal/db"
	appMiddleware "github.com/ccslab/sitin/internal/middleware"
	pkgAuth "github.com/ccslab/sitin/internal/pkg/auth"
	"github.com/ccslab/sitin/internal/pkg/logger"
	"github.com/ccslab/sitin/internal/pkg/validation"
	"github.com/ccslab/sitin/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	SessionService         *appServices.SessionService
	AuthService            *appServices.AuthService
	StudentService         *appServices.StudentService
	FeedbackService        *appServices.FeedbackService
	AnnouncementService    *appServices.AnnouncementService
	StatsService           *appServices.StatsService
	AuthController         *appControllers.AuthController
	SessionController      *appControllers.SessionController
	AdminSessionController *appControllers.AdminSessionController
	StudentController      *appControllers.StudentController
	AnnouncementController *appControllers.AnnouncementController
	StatsController        *appControllers.StatsController
	AuthMiddleware         *appMiddleware.AuthMiddleware
	Repos                  *appRepos.Repositories
	JWTService             *pkgAuth.JWTService
	Logger                 zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs migrations and
// seeds the default data.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := database.Pool.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		database.Close()
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(database.Pool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		database.Close()
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(context.Background(), migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		database.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	if err := seed.CreateDefaultData(context.Background(), database.Pool, lgr); err != nil {
		// Seed failures are logged but do not block startup
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return database, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(database.Pool)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: cfg.GetJWTAccessExpiration(),
		TokenIssuer:    cfg.JWT.Issuer,
	})

	deps.SessionService = appServices.NewSessionService(
		database,
		deps.Repos.SessionRepository,
		deps.Repos.StudentRepository,
	)
	deps.AuthService = appServices.NewAuthService(
		deps.Repos.StudentRepository,
		deps.Repos.AdminRepository,
		deps.JWTService,
	)
	deps.StudentService = appServices.NewStudentService(deps.Repos.StudentRepository, deps.Repos.SessionRepository)
	deps.FeedbackService = appServices.NewFeedbackService(deps.Repos.FeedbackRepository, deps.Repos.SessionRepository)
	deps.AnnouncementService = appServices.NewAnnouncementService(deps.Repos.AnnouncementRepository)
	deps.StatsService = appServices.NewStatsService(
		deps.Repos.StudentRepository,
		deps.Repos.SessionRepository,
		deps.Repos.FeedbackRepository,
	)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.AuthController = appControllers.NewAuthController(deps.AuthService, lgr)
	deps.SessionController = appControllers.NewSessionController(deps.SessionService, deps.FeedbackService, lgr)
	deps.AdminSessionController = appControllers.NewAdminSessionController(deps.SessionService, deps.FeedbackService, lgr)
	deps.StudentController = appControllers.NewStudentController(deps.StudentService, lgr)
	deps.AnnouncementController = appControllers.NewAnnouncementController(deps.AnnouncementService, lgr)
	deps.StatsController = appControllers.NewStatsController(deps.StatsService, deps.Repos.LanguageRepository, lgr)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	validation.RegisterCustomValidators()

	router := gin.Default()

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.SessionController,
		deps.AdminSessionController,
		deps.StudentController,
		deps.AnnouncementController,
		deps.StatsController,
		deps.AuthMiddleware,
	)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
