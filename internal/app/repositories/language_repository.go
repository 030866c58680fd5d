package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ccslab/sitin/internal/app/models"
)

// LanguageRepository handles programming language reference data
type LanguageRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewLanguageRepository creates a new LanguageRepository
func NewLanguageRepository(db *pgxpool.Pool) *LanguageRepository {
	return &LanguageRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// List retrieves all selectable programming languages
func (r *LanguageRepository) List(ctx context.Context) ([]*models.ProgrammingLanguage, error) {
	sql, args, err := r.sb.Select("id", "name", "created_at").
		From("programming_languages").
		OrderBy("name").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list languages query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying languages: %w", err)
	}
	defer rows.Close()

	var list []*models.ProgrammingLanguage
	for rows.Next() {
		var l models.ProgrammingLanguage
		if err := rows.Scan(&l.ID, &l.Name, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning language row: %w", err)
		}
		list = append(list, &l)
	}

	return list, rows.Err()
}

// EnsureDefaults inserts any missing default languages
func (r *LanguageRepository) EnsureDefaults(ctx context.Context, names []string) error {
	for _, name := range names {
		sql, args, err := r.sb.Insert("programming_languages").
			Columns("name").
			Values(name).
			Suffix("ON CONFLICT (name) DO NOTHING").
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build insert language query: %w", err)
		}

		if _, err := r.db.Exec(ctx, sql, args...); err != nil {
			return fmt.Errorf("error inserting default language %q: %w", name, err)
		}
	}

	return nil
}
