package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ccslab/sitin/internal/app/models"
	"github.com/ccslab/sitin/internal/app/models/dto"
	"github.com/ccslab/sitin/internal/pkg/logger"
)

// FeedbackRepository handles session feedback database operations
type FeedbackRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewFeedbackRepository creates a new FeedbackRepository
func NewFeedbackRepository(db *pgxpool.Pool) *FeedbackRepository {
	return &FeedbackRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Upsert creates the feedback row for a (session, student) pair, or updates
// the rating and comments when the pair already submitted one
func (r *FeedbackRepository) Upsert(ctx context.Context, feedback *models.Feedback) error {
	sql, args, err := r.sb.Insert("feedback").
		Columns("session_id", "student_id", "rating", "comments").
		Values(feedback.SessionID, feedback.StudentID, feedback.Rating, feedback.Comments).
		Suffix(`ON CONFLICT (session_id, student_id)
			DO UPDATE SET rating = EXCLUDED.rating, comments = EXCLUDED.comments
			RETURNING id, created_at`).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build upsert feedback query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&feedback.ID, &feedback.CreatedAt)
	if err != nil {
		logger.Error().Err(err).Int64("sessionID", feedback.SessionID).
			Int64("studentID", feedback.StudentID).Msg("Error upserting feedback")
		return fmt.Errorf("error saving feedback: %w", err)
	}

	logger.Info().Int64("sessionID", feedback.SessionID).Int64("studentID", feedback.StudentID).
		Int("rating", feedback.Rating).Msg("Feedback saved")
	return nil
}

// List retrieves all feedback joined with session and student details, newest
// first
func (r *FeedbackRepository) List(ctx context.Context) ([]*models.Feedback, error) {
	query := `
	SELECT f.id, f.session_id, f.student_id, f.rating, f.comments, f.created_at,
	       s.lab_room, st.first_name, st.last_name, st.id_number
	FROM feedback f
	JOIN sessions s ON f.session_id = s.id
	JOIN students st ON f.student_id = st.id
	ORDER BY f.created_at DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error querying feedback: %w", err)
	}
	defer rows.Close()

	var list []*models.Feedback
	for rows.Next() {
		var f models.Feedback
		var session models.SitInSession
		var student models.Student
		err := rows.Scan(
			&f.ID, &f.SessionID, &f.StudentID, &f.Rating, &f.Comments, &f.CreatedAt,
			&session.LabRoom, &student.FirstName, &student.LastName, &student.IDNumber,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning feedback row: %w", err)
		}
		session.ID = f.SessionID
		student.ID = f.StudentID
		f.Session = &session
		f.Student = &student
		list = append(list, &f)
	}

	return list, rows.Err()
}

// Aggregate computes the feedback summary shown on the dashboard
func (r *FeedbackRepository) Aggregate(ctx context.Context) (*dto.FeedbackStats, error) {
	query := `
	SELECT COUNT(*),
	       COALESCE(AVG(rating), 0),
	       COALESCE(SUM(CASE WHEN rating >= 4 THEN 1 ELSE 0 END), 0),
	       COALESCE(SUM(CASE WHEN rating <= 2 THEN 1 ELSE 0 END), 0)
	FROM feedback`

	var stats dto.FeedbackStats
	err := r.db.QueryRow(ctx, query).Scan(
		&stats.TotalFeedback, &stats.AverageRating,
		&stats.PositiveFeedback, &stats.NegativeFeedback,
	)
	if err != nil {
		return nil, fmt.Errorf("error aggregating feedback: %w", err)
	}

	return &stats, nil
}
