package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ccslab/sitin/internal/app/models"
	"github.com/ccslab/sitin/internal/app/models/dto"
	"github.com/ccslab/sitin/internal/pkg/dberrors"
	"github.com/ccslab/sitin/internal/pkg/helpers"
	"github.com/ccslab/sitin/internal/pkg/logger"
)

var (
	ErrStudentNotFound  = errors.New("student not found")
	ErrStudentIDExists  = errors.New("student ID number already in use")
	ErrUsernameExists   = errors.New("username already in use")
	ErrEmailExists      = errors.New("email already in use")
)

// studentColumns is the canonical column order used by scanStudent
var studentColumns = []string{
	"id", "id_number", "last_name", "first_name", "middle_name", "course",
	"year_level", "email", "username", "password", "sessions_used",
	"max_sessions", "created_at",
}

// StudentRepository handles student database operations
type StudentRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(db *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanStudent(row pgx.Row) (*models.Student, error) {
	var s models.Student
	err := row.Scan(
		&s.ID, &s.IDNumber, &s.LastName, &s.FirstName, &s.MiddleName, &s.Course,
		&s.YearLevel, &s.Email, &s.Username, &s.Password, &s.SessionsUsed,
		&s.MaxSessions, &s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Create inserts a new student with the quota ceiling already assigned
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	sql, args, err := r.sb.Insert("students").
		Columns("id_number", "last_name", "first_name", "middle_name", "course",
			"year_level", "email", "username", "password", "sessions_used", "max_sessions").
		Values(student.IDNumber, student.LastName, student.FirstName, helpers.GetNullString(student.MiddleName),
			student.Course, student.YearLevel, student.Email, student.Username,
			student.Password, student.SessionsUsed, student.MaxSessions).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create student query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&student.ID, &student.CreatedAt)
	if err != nil {
		switch {
		case dberrors.IsDuplicateConstraintError(err, "students_id_number_key"):
			logger.Warn().Str("idNumber", student.IDNumber).Msg("Attempted to register duplicate student ID number")
			return ErrStudentIDExists
		case dberrors.IsDuplicateConstraintError(err, "students_username_key"):
			return ErrUsernameExists
		case dberrors.IsDuplicateConstraintError(err, "students_email_key"):
			return ErrEmailExists
		}
		logger.Error().Err(err).Str("username", student.Username).Msg("Error executing create student query")
		return fmt.Errorf("error creating student: %w", err)
	}

	logger.Info().Int64("studentID", student.ID).Str("idNumber", student.IDNumber).
		Int("maxSessions", student.MaxSessions).Msg("Student registered")
	return nil
}

// GetByID retrieves a student by ID
func (r *StudentRepository) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	return r.getOne(ctx, r.db, squirrel.Eq{"id": id}, false)
}

// GetByIDForUpdate retrieves a student by ID with a row lock. Quota-coupled
// lifecycle transitions lock the student row so concurrent mutations of the
// sessions_used counter serialize.
func (r *StudentRepository) GetByIDForUpdate(ctx context.Context, q Querier, id int64) (*models.Student, error) {
	return r.getOne(ctx, q, squirrel.Eq{"id": id}, true)
}

// GetByUsername retrieves a student by username
func (r *StudentRepository) GetByUsername(ctx context.Context, username string) (*models.Student, error) {
	return r.getOne(ctx, r.db, squirrel.Eq{"username": username}, false)
}

func (r *StudentRepository) getOne(ctx context.Context, q Querier, where squirrel.Sqlizer, forUpdate bool) (*models.Student, error) {
	builder := r.sb.Select(studentColumns...).
		From("students").
		Where(where).
		Limit(1)
	if forUpdate {
		builder = builder.Suffix("FOR UPDATE")
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get student query: %w", err)
	}

	student, err := scanStudent(q.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrStudentNotFound
		}
		logger.Error().Err(err).Msg("Error scanning student row")
		return nil, fmt.Errorf("error retrieving student: %w", err)
	}

	return student, nil
}

// List retrieves the student roster with live active-session counts
func (r *StudentRepository) List(ctx context.Context) ([]*dto.StudentSummary, error) {
	query := `
	SELECT s.id, s.id_number, s.last_name, s.first_name, s.middle_name, s.course,
	       s.year_level, s.email, s.username, s.password, s.sessions_used,
	       s.max_sessions, s.created_at,
	       (SELECT COUNT(*) FROM sessions
	        WHERE student_id = s.id AND status IN ('approved', 'checked_in')) AS active_sessions
	FROM students s
	ORDER BY s.last_name, s.first_name`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error querying students: %w", err)
	}
	defer rows.Close()

	var students []*dto.StudentSummary
	for rows.Next() {
		var s dto.StudentSummary
		err := rows.Scan(
			&s.ID, &s.IDNumber, &s.LastName, &s.FirstName, &s.MiddleName, &s.Course,
			&s.YearLevel, &s.Email, &s.Username, &s.Password, &s.SessionsUsed,
			&s.MaxSessions, &s.CreatedAt, &s.ActiveSessions,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning student row: %w", err)
		}
		students = append(students, &s)
	}

	return students, rows.Err()
}

// Count returns the number of registered students
func (r *StudentRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM students").Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting students: %w", err)
	}
	return count, nil
}

// AdjustSessionsUsed shifts the quota consumption counter by delta, clamped at
// zero so an unmatched release can never drive it negative
func (r *StudentRepository) AdjustSessionsUsed(ctx context.Context, q Querier, id int64, delta int) error {
	sql, args, err := r.sb.Update("students").
		Set("sessions_used", squirrel.Expr("GREATEST(sessions_used + ?, 0)", delta)).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build adjust quota query: %w", err)
	}

	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("studentID", id).Int("delta", delta).Msg("Error adjusting quota counter")
		return fmt.Errorf("error adjusting quota counter: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrStudentNotFound
	}

	return nil
}

// UpdateProfile updates the editable profile fields and the quota ceiling (the
// ceiling follows the course tier)
func (r *StudentRepository) UpdateProfile(ctx context.Context, student *models.Student) error {
	sql, args, err := r.sb.Update("students").
		Set("last_name", student.LastName).
		Set("first_name", student.FirstName).
		Set("middle_name", helpers.GetNullString(student.MiddleName)).
		Set("course", student.Course).
		Set("year_level", student.YearLevel).
		Set("email", student.Email).
		Set("max_sessions", student.MaxSessions).
		Where(squirrel.Eq{"id": student.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update profile query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "students_email_key") {
			return ErrEmailExists
		}
		return fmt.Errorf("error updating student profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrStudentNotFound
	}

	return nil
}

// Delete removes a student; sessions and feedback cascade via foreign keys
func (r *StudentRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("students").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete student query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error deleting student: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrStudentNotFound
	}

	logger.Info().Int64("studentID", id).Msg("Student deleted")
	return nil
}

// ReconcileCeilings corrects max_sessions rows that disagree with the quota
// tier implied by the student's course. Returns the number of corrected rows.
func (r *StudentRepository) ReconcileCeilings(ctx context.Context, elevatedCourses []string, elevatedMax, standardMax int) (int64, error) {
	query := `
	UPDATE students
	SET max_sessions = CASE WHEN course = ANY($1) THEN $2::int ELSE $3::int END
	WHERE max_sessions IS DISTINCT FROM CASE WHEN course = ANY($1) THEN $2::int ELSE $3::int END`

	tag, err := r.db.Exec(ctx, query, elevatedCourses, elevatedMax, standardMax)
	if err != nil {
		return 0, fmt.Errorf("error reconciling quota ceilings: %w", err)
	}

	return tag.RowsAffected(), nil
}

// ReconcileCounters recomputes sessions_used from the session table: one unit
// per session that was approved and not subsequently reversed. Returns the
// number of corrected rows.
func (r *StudentRepository) ReconcileCounters(ctx context.Context) (int64, error) {
	query := `
	UPDATE students s
	SET sessions_used = c.charged
	FROM (SELECT st.id,
	             (SELECT COUNT(*) FROM sessions
	              WHERE student_id = st.id
	                AND status IN ('approved', 'checked_in', 'completed')) AS charged
	      FROM students st) c
	WHERE s.id = c.id AND s.sessions_used IS DISTINCT FROM c.charged`

	tag, err := r.db.Exec(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("error reconciling quota counters: %w", err)
	}

	return tag.RowsAffected(), nil
}
