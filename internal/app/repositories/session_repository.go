package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ccslab/sitin/internal/app/models"
	"github.com/ccslab/sitin/internal/app/models/dto"
	"github.com/ccslab/sitin/internal/pkg/helpers"
	"github.com/ccslab/sitin/internal/pkg/logger"
)

var (
	ErrSessionNotFound = errors.New("session not found")
)

// sessionColumns is the canonical column order used by scanSession
var sessionColumns = []string{
	"id", "student_id", "lab_room", "date_time", "duration",
	"programming_language", "purpose", "status", "check_in_time",
	"check_out_time", "created_at",
}

// SessionRepository handles sit-in session database operations
type SessionRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewSessionRepository creates a new SessionRepository
func NewSessionRepository(db *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanSession(row pgx.Row) (*models.SitInSession, error) {
	var s models.SitInSession
	err := row.Scan(
		&s.ID, &s.StudentID, &s.LabRoom, &s.DateTime, &s.Duration,
		&s.ProgrammingLanguage, &s.Purpose, &s.Status, &s.CheckInTime,
		&s.CheckOutTime, &s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Create inserts a new session record in the pending state
func (r *SessionRepository) Create(ctx context.Context, q Querier, session *models.SitInSession) error {
	sql, args, err := r.sb.Insert("sessions").
		Columns("student_id", "lab_room", "date_time", "duration", "programming_language", "purpose", "status").
		Values(session.StudentID, session.LabRoom, session.DateTime, session.Duration,
			helpers.GetNullString(session.ProgrammingLanguage), helpers.GetNullString(session.Purpose),
			session.Status).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create session query: %w", err)
	}

	err = q.QueryRow(ctx, sql, args...).Scan(&session.ID, &session.CreatedAt)
	if err != nil {
		logger.Error().Err(err).Int64("studentID", session.StudentID).Msg("Error executing create session query")
		return fmt.Errorf("error creating session: %w", err)
	}

	logger.Info().Int64("sessionID", session.ID).Int64("studentID", session.StudentID).
		Str("labRoom", session.LabRoom).Msg("Session request created")
	return nil
}

// GetByID retrieves a session by ID
func (r *SessionRepository) GetByID(ctx context.Context, id int64) (*models.SitInSession, error) {
	return r.getByID(ctx, r.db, id, false)
}

// GetByIDForUpdate retrieves a session by ID with a row lock, for use inside a
// lifecycle transaction
func (r *SessionRepository) GetByIDForUpdate(ctx context.Context, q Querier, id int64) (*models.SitInSession, error) {
	return r.getByID(ctx, q, id, true)
}

func (r *SessionRepository) getByID(ctx context.Context, q Querier, id int64, forUpdate bool) (*models.SitInSession, error) {
	builder := r.sb.Select(sessionColumns...).
		From("sessions").
		Where(squirrel.Eq{"id": id})
	if forUpdate {
		builder = builder.Suffix("FOR UPDATE")
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get session query: %w", err)
	}

	session, err := scanSession(q.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		logger.Error().Err(err).Int64("sessionID", id).Msg("Error scanning session row")
		return nil, fmt.Errorf("error retrieving session: %w", err)
	}

	return session, nil
}

// ListByStudent retrieves all sessions of one student, newest first
func (r *SessionRepository) ListByStudent(ctx context.Context, studentID int64) ([]*models.SitInSession, error) {
	sql, args, err := r.sb.Select(sessionColumns...).
		From("sessions").
		Where(squirrel.Eq{"student_id": studentID}).
		OrderBy("date_time DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list sessions query: %w", err)
	}

	return r.querySessions(ctx, sql, args)
}

func (r *SessionRepository) querySessions(ctx context.Context, sql string, args []interface{}) ([]*models.SitInSession, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*models.SitInSession
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning session row: %w", err)
		}
		sessions = append(sessions, session)
	}

	return sessions, rows.Err()
}

// listWithStudent runs a session query joined with the owning student row
func (r *SessionRepository) listWithStudent(ctx context.Context, where squirrel.Sqlizer, orderBy string) ([]*models.SitInSession, error) {
	sql, args, err := r.sb.Select(
		"s.id", "s.student_id", "s.lab_room", "s.date_time", "s.duration",
		"s.programming_language", "s.purpose", "s.status", "s.check_in_time",
		"s.check_out_time", "s.created_at",
		"st.id_number", "st.first_name", "st.last_name", "st.course",
	).
		From("sessions s").
		Join("students st ON s.student_id = st.id").
		Where(where).
		OrderBy(orderBy).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build session join query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*models.SitInSession
	for rows.Next() {
		var s models.SitInSession
		var st models.Student
		err := rows.Scan(
			&s.ID, &s.StudentID, &s.LabRoom, &s.DateTime, &s.Duration,
			&s.ProgrammingLanguage, &s.Purpose, &s.Status, &s.CheckInTime,
			&s.CheckOutTime, &s.CreatedAt,
			&st.IDNumber, &st.FirstName, &st.LastName, &st.Course,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning session row: %w", err)
		}
		st.ID = s.StudentID
		s.Student = &st
		sessions = append(sessions, &s)
	}

	return sessions, rows.Err()
}

// ListPending retrieves session requests awaiting the approval decision,
// oldest request first
func (r *SessionRepository) ListPending(ctx context.Context) ([]*models.SitInSession, error) {
	return r.listWithStudent(ctx, squirrel.Eq{"s.status": models.SessionPending}, "s.date_time ASC")
}

// ListActive retrieves approved and checked-in sessions, newest first
func (r *SessionRepository) ListActive(ctx context.Context) ([]*models.SitInSession, error) {
	return r.listWithStudent(ctx,
		squirrel.Eq{"s.status": []models.SessionStatus{models.SessionApproved, models.SessionCheckedIn}},
		"s.date_time DESC")
}

// ListCurrentSitIns retrieves sessions whose student is physically present:
// checked in but not yet checked out
func (r *SessionRepository) ListCurrentSitIns(ctx context.Context) ([]*models.SitInSession, error) {
	return r.listWithStudent(ctx, squirrel.And{
		squirrel.Eq{"s.status": models.SessionCheckedIn},
		squirrel.NotEq{"s.check_in_time": nil},
		squirrel.Eq{"s.check_out_time": nil},
	}, "s.check_in_time DESC")
}

// ListActiveByStudent retrieves the charged (approved or checked-in) sessions
// of one student
func (r *SessionRepository) ListActiveByStudent(ctx context.Context, studentID int64) ([]*models.SitInSession, error) {
	sql, args, err := r.sb.Select(sessionColumns...).
		From("sessions").
		Where(squirrel.And{
			squirrel.Eq{"student_id": studentID},
			squirrel.Eq{"status": []models.SessionStatus{models.SessionApproved, models.SessionCheckedIn}},
		}).
		OrderBy("date_time DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list active sessions query: %w", err)
	}

	return r.querySessions(ctx, sql, args)
}

// UpdateStatus sets the lifecycle status of a session
func (r *SessionRepository) UpdateStatus(ctx context.Context, q Querier, id int64, status models.SessionStatus) error {
	sql, args, err := r.sb.Update("sessions").
		Set("status", status).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update status query: %w", err)
	}

	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("sessionID", id).Str("status", string(status)).Msg("Error updating session status")
		return fmt.Errorf("error updating session status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrSessionNotFound
	}

	return nil
}

// SetCheckIn records the physical check-in timestamp
func (r *SessionRepository) SetCheckIn(ctx context.Context, q Querier, id int64, at time.Time) error {
	sql, args, err := r.sb.Update("sessions").
		Set("status", models.SessionCheckedIn).
		Set("check_in_time", at).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build check-in query: %w", err)
	}

	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error recording check-in: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrSessionNotFound
	}

	return nil
}

// SetCheckOut records the check-out timestamp and completes the session
func (r *SessionRepository) SetCheckOut(ctx context.Context, q Querier, id int64, at time.Time) error {
	sql, args, err := r.sb.Update("sessions").
		Set("status", models.SessionCompleted).
		Set("check_out_time", at).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build check-out query: %w", err)
	}

	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error recording check-out: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrSessionNotFound
	}

	return nil
}

// CompleteAllActive force-completes every approved or checked-in session of a
// student and returns how many rows changed
func (r *SessionRepository) CompleteAllActive(ctx context.Context, q Querier, studentID int64) (int64, error) {
	sql, args, err := r.sb.Update("sessions").
		Set("status", models.SessionCompleted).
		Where(squirrel.And{
			squirrel.Eq{"student_id": studentID},
			squirrel.Eq{"status": []models.SessionStatus{models.SessionApproved, models.SessionCheckedIn}},
		}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build complete all query: %w", err)
	}

	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("studentID", studentID).Msg("Error completing active sessions")
		return 0, fmt.Errorf("error completing active sessions: %w", err)
	}

	return tag.RowsAffected(), nil
}

// CountByStatus returns the number of sessions in the given statuses
func (r *SessionRepository) CountByStatus(ctx context.Context, statuses ...models.SessionStatus) (int, error) {
	sql, args, err := r.sb.Select("COUNT(*)").
		From("sessions").
		Where(squirrel.Eq{"status": statuses}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count query: %w", err)
	}

	var count int
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting sessions: %w", err)
	}

	return count, nil
}

// CountCurrentSitIns returns the number of students currently checked in
func (r *SessionRepository) CountCurrentSitIns(ctx context.Context) (int, error) {
	sql, args, err := r.sb.Select("COUNT(*)").
		From("sessions").
		Where(squirrel.And{
			squirrel.Eq{"status": models.SessionCheckedIn},
			squirrel.NotEq{"check_in_time": nil},
			squirrel.Eq{"check_out_time": nil},
		}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count query: %w", err)
	}

	var count int
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting current sit-ins: %w", err)
	}

	return count, nil
}

// LanguageStats aggregates session counts per programming language
func (r *SessionRepository) LanguageStats(ctx context.Context) ([]dto.LanguageStat, error) {
	query := `
	SELECT programming_language,
	       COUNT(*) AS count,
	       COUNT(*) * 100.0 / (SELECT COUNT(*) FROM sessions WHERE programming_language IS NOT NULL) AS percentage
	FROM sessions
	WHERE programming_language IS NOT NULL
	GROUP BY programming_language
	ORDER BY count DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error querying language stats: %w", err)
	}
	defer rows.Close()

	var stats []dto.LanguageStat
	for rows.Next() {
		var s dto.LanguageStat
		if err := rows.Scan(&s.ProgrammingLanguage, &s.Count, &s.Percentage); err != nil {
			return nil, fmt.Errorf("error scanning language stat: %w", err)
		}
		stats = append(stats, s)
	}

	return stats, rows.Err()
}

// LabRoomStats aggregates session counts and booked hours per lab room
func (r *SessionRepository) LabRoomStats(ctx context.Context) ([]dto.LabRoomStat, error) {
	query := `
	SELECT lab_room,
	       COUNT(*) AS count,
	       COUNT(*) * 100.0 / (SELECT COUNT(*) FROM sessions) AS percentage,
	       COALESCE(SUM(duration), 0) AS total_hours
	FROM sessions
	GROUP BY lab_room
	ORDER BY count DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error querying lab room stats: %w", err)
	}
	defer rows.Close()

	var stats []dto.LabRoomStat
	for rows.Next() {
		var s dto.LabRoomStat
		if err := rows.Scan(&s.LabRoom, &s.Count, &s.Percentage, &s.TotalHours); err != nil {
			return nil, fmt.Errorf("error scanning lab room stat: %w", err)
		}
		stats = append(stats, s)
	}

	return stats, rows.Err()
}

// RecentActivity returns the latest request and check-in events
func (r *SessionRepository) RecentActivity(ctx context.Context, limit int) ([]dto.ActivityEvent, error) {
	query := `
	(SELECT s.id, st.first_name, st.last_name, s.lab_room, 'Requested a session' AS action, s.created_at AS event_time
	 FROM sessions s
	 JOIN students st ON s.student_id = st.id
	 ORDER BY s.created_at DESC
	 LIMIT $1)
	UNION ALL
	(SELECT s.id, st.first_name, st.last_name, s.lab_room, 'Checked in' AS action, s.check_in_time AS event_time
	 FROM sessions s
	 JOIN students st ON s.student_id = st.id
	 WHERE s.check_in_time IS NOT NULL
	 ORDER BY s.check_in_time DESC
	 LIMIT $1)
	ORDER BY event_time DESC
	LIMIT $1`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("error querying recent activity: %w", err)
	}
	defer rows.Close()

	var events []dto.ActivityEvent
	for rows.Next() {
		var e dto.ActivityEvent
		if err := rows.Scan(&e.SessionID, &e.FirstName, &e.LastName, &e.LabRoom, &e.Action, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("error scanning activity event: %w", err)
		}
		events = append(events, e)
	}

	return events, rows.Err()
}
