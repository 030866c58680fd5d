package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ccslab/sitin/internal/app/models"
	"github.com/ccslab/sitin/internal/pkg/dberrors"
	"github.com/ccslab/sitin/internal/pkg/logger"
)

var (
	ErrAdminNotFound = errors.New("admin not found")
	ErrAdminExists   = errors.New("admin username already exists")
)

// AdminRepository handles administrator database operations
type AdminRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewAdminRepository creates a new AdminRepository
func NewAdminRepository(db *pgxpool.Pool) *AdminRepository {
	return &AdminRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new administrator account
func (r *AdminRepository) Create(ctx context.Context, admin *models.Admin) error {
	sql, args, err := r.sb.Insert("admins").
		Columns("username", "password").
		Values(admin.Username, admin.Password).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create admin query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&admin.ID, &admin.CreatedAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "admins_username_key") {
			return ErrAdminExists
		}
		logger.Error().Err(err).Str("username", admin.Username).Msg("Error executing create admin query")
		return fmt.Errorf("error creating admin: %w", err)
	}

	return nil
}

// GetByUsername retrieves an administrator by username
func (r *AdminRepository) GetByUsername(ctx context.Context, username string) (*models.Admin, error) {
	sql, args, err := r.sb.Select("id", "username", "password", "created_at").
		From("admins").
		Where(squirrel.Eq{"username": username}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get admin query: %w", err)
	}

	var admin models.Admin
	err = r.db.QueryRow(ctx, sql, args...).Scan(&admin.ID, &admin.Username, &admin.Password, &admin.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAdminNotFound
		}
		return nil, fmt.Errorf("error retrieving admin: %w", err)
	}

	return &admin, nil
}
