// Package seed creates the default data required for a fresh installation
package seed

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/ccslab/sitin/internal/app/models"
	"github.com/ccslab/sitin/internal/app/repositories"
	"github.com/ccslab/sitin/internal/app/services"
	"github.com/ccslab/sitin/internal/pkg/auth"
)

// DefaultAdminUsername is the administrator account created on first start.
// The password must be changed after the first login.
const (
	DefaultAdminUsername = "admin"
	DefaultAdminPassword = "admin123"
)

// CreateDefaultData creates the default administrator account and the
// programming language catalog if they don't exist
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	adminRepo := repositories.NewAdminRepository(dbPool)
	languageRepo := repositories.NewLanguageRepository(dbPool)

	lgr.Info().Msg("Checking/Creating default data (admin account, language catalog)...")
	var finalErr error

	_, err := adminRepo.GetByUsername(ctx, DefaultAdminUsername)
	if errors.Is(err, repositories.ErrAdminNotFound) {
		hashed, hashErr := auth.HashPassword(DefaultAdminPassword)
		if hashErr != nil {
			return hashErr
		}
		admin := &models.Admin{
			Username: DefaultAdminUsername,
			Password: hashed,
		}
		if createErr := adminRepo.Create(ctx, admin); createErr != nil && !errors.Is(createErr, repositories.ErrAdminExists) {
			lgr.Error().Err(createErr).Msg("Error creating default admin account")
			finalErr = errors.Join(finalErr, createErr)
		} else {
			lgr.Info().Str("username", DefaultAdminUsername).Msg("Default admin account created")
		}
	} else if err != nil {
		lgr.Error().Err(err).Msg("Error checking for default admin account")
		finalErr = errors.Join(finalErr, err)
	}

	if err := languageRepo.EnsureDefaults(ctx, services.DefaultLanguages); err != nil {
		lgr.Error().Err(err).Msg("Error seeding programming language catalog")
		finalErr = errors.Join(finalErr, err)
	}

	return finalErr
}
