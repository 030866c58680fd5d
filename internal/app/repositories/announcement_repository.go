package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ccslab/sitin/internal/app/models"
	"github.com/ccslab/sitin/internal/pkg/logger"
)

var (
	ErrAnnouncementNotFound = errors.New("announcement not found")
)

// AnnouncementRepository handles announcement database operations
type AnnouncementRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewAnnouncementRepository creates a new AnnouncementRepository
func NewAnnouncementRepository(db *pgxpool.Pool) *AnnouncementRepository {
	return &AnnouncementRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new announcement, active by default
func (r *AnnouncementRepository) Create(ctx context.Context, announcement *models.Announcement) error {
	sql, args, err := r.sb.Insert("announcements").
		Columns("title", "content").
		Values(announcement.Title, announcement.Content).
		Suffix("RETURNING id, is_active, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create announcement query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&announcement.ID, &announcement.IsActive, &announcement.CreatedAt)
	if err != nil {
		logger.Error().Err(err).Str("title", announcement.Title).Msg("Error creating announcement")
		return fmt.Errorf("error creating announcement: %w", err)
	}

	return nil
}

// List retrieves announcements, newest first. When activeOnly is true only
// currently visible ones are returned.
func (r *AnnouncementRepository) List(ctx context.Context, activeOnly bool) ([]*models.Announcement, error) {
	builder := r.sb.Select("id", "title", "content", "is_active", "created_at").
		From("announcements").
		OrderBy("created_at DESC")
	if activeOnly {
		builder = builder.Where(squirrel.Eq{"is_active": true})
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list announcements query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying announcements: %w", err)
	}
	defer rows.Close()

	var list []*models.Announcement
	for rows.Next() {
		var a models.Announcement
		if err := rows.Scan(&a.ID, &a.Title, &a.Content, &a.IsActive, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning announcement row: %w", err)
		}
		list = append(list, &a)
	}

	return list, rows.Err()
}

// Toggle flips the visibility flag of an announcement
func (r *AnnouncementRepository) Toggle(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Update("announcements").
		Set("is_active", squirrel.Expr("NOT is_active")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build toggle announcement query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error toggling announcement: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAnnouncementNotFound
	}

	return nil
}

// Delete removes an announcement
func (r *AnnouncementRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("announcements").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete announcement query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error deleting announcement: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAnnouncementNotFound
	}

	return nil
}
