package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier is the subset of pgx execution methods shared by *pgxpool.Pool and
// pgx.Tx. Lifecycle-sensitive repository methods take a Querier so the service
// layer can run them inside one transaction together with the quota counter
// updates.
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repositories holds all the repository instances
type Repositories struct {
	StudentRepository      *StudentRepository
	AdminRepository        *AdminRepository
	SessionRepository      *SessionRepository
	FeedbackRepository     *FeedbackRepository
	AnnouncementRepository *AnnouncementRepository
	LanguageRepository     *LanguageRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		StudentRepository:      NewStudentRepository(db),
		AdminRepository:        NewAdminRepository(db),
		SessionRepository:      NewSessionRepository(db),
		FeedbackRepository:     NewFeedbackRepository(db),
		AnnouncementRepository: NewAnnouncementRepository(db),
		LanguageRepository:     NewLanguageRepository(db),
	}
}
