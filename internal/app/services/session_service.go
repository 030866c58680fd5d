package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/ccslab/sitin/internal/app/models"
	"github.com/ccslab/sitin/internal/app/models/dto"
	"github.com/ccslab/sitin/internal/app/repositories"
	"github.com/ccslab/sitin/internal/pkg/apperrors"
	"github.com/ccslab/sitin/internal/pkg/logger"
)

// txRunner executes a function inside a database transaction. Satisfied by
// db.PostgresDB.
type txRunner interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context, tx pgx.Tx) error) error
}

// sessionStore is the session record store consumed by the lifecycle engine.
// Methods taking a Querier participate in the caller's transaction.
type sessionStore interface {
	Create(ctx context.Context, q repositories.Querier, session *models.SitInSession) error
	GetByID(ctx context.Context, id int64) (*models.SitInSession, error)
	GetByIDForUpdate(ctx context.Context, q repositories.Querier, id int64) (*models.SitInSession, error)
	ListByStudent(ctx context.Context, studentID int64) ([]*models.SitInSession, error)
	ListPending(ctx context.Context) ([]*models.SitInSession, error)
	ListActive(ctx context.Context) ([]*models.SitInSession, error)
	ListCurrentSitIns(ctx context.Context) ([]*models.SitInSession, error)
	UpdateStatus(ctx context.Context, q repositories.Querier, id int64, status models.SessionStatus) error
	SetCheckIn(ctx context.Context, q repositories.Querier, id int64, at time.Time) error
	SetCheckOut(ctx context.Context, q repositories.Querier, id int64, at time.Time) error
	CompleteAllActive(ctx context.Context, q repositories.Querier, studentID int64) (int64, error)
}

// quotaStore is the slice of the student store the lifecycle engine needs for
// quota accounting
type quotaStore interface {
	GetByIDForUpdate(ctx context.Context, q repositories.Querier, id int64) (*models.Student, error)
	AdjustSessionsUsed(ctx context.Context, q repositories.Querier, id int64, delta int) error
}

// SessionService is the sit-in session lifecycle engine. Every transition
// that touches both the session record and the student's quota counter runs
// as one transaction: the session row is read under FOR UPDATE, the guard is
// validated, and both writes commit or roll back together.
type SessionService struct {
	db       txRunner
	sessions sessionStore
	students quotaStore
}

// NewSessionService creates a new SessionService
func NewSessionService(db txRunner, sessions sessionStore, students quotaStore) *SessionService {
	return &SessionService{
		db:       db,
		sessions: sessions,
		students: students,
	}
}

// RequestSession submits a new sit-in request in the pending state. The
// student row is locked so a concurrent burst of requests cannot slip past
// the quota ceiling; the quota itself is only charged once an administrator
// approves.
func (s *SessionService) RequestSession(ctx context.Context, studentID int64, req *dto.CreateSessionRequest) (*models.SitInSession, error) {
	session := &models.SitInSession{
		StudentID:           studentID,
		LabRoom:             req.LabRoom,
		DateTime:            req.DateTime,
		Duration:            req.Duration,
		ProgrammingLanguage: req.ProgrammingLanguage,
		Purpose:             req.Purpose,
		Status:              models.SessionPending,
	}

	err := s.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		student, err := s.students.GetByIDForUpdate(ctx, tx, studentID)
		if err != nil {
			if errors.Is(err, repositories.ErrStudentNotFound) {
				return apperrors.ErrStudentNotFound
			}
			return apperrors.NewStorageError(err, "failed to load student")
		}

		if !student.HasCapacity() {
			logger.Warn().Int64("studentID", studentID).
				Int("sessionsUsed", student.SessionsUsed).Int("maxSessions", student.MaxSessions).
				Msg("Session request denied: quota exceeded")
			return apperrors.ErrQuotaExceeded
		}

		return s.sessions.Create(ctx, tx, session)
	})
	if err != nil {
		return nil, err
	}

	return session, nil
}

// Approve accepts a pending request, activating the session and charging one
// unit of the student's quota
func (s *SessionService) Approve(ctx context.Context, sessionID int64) error {
	return s.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		session, err := s.lockSession(ctx, tx, sessionID)
		if err != nil {
			return err
		}

		if session.Status != models.SessionPending {
			return apperrors.NewInvalidStateError(
				fmt.Sprintf("session %d is %s, only pending requests can be approved", sessionID, session.Status))
		}

		if err := s.sessions.UpdateStatus(ctx, tx, sessionID, models.SessionApproved); err != nil {
			return apperrors.NewStorageError(err, "failed to approve session")
		}

		if err := s.students.AdjustSessionsUsed(ctx, tx, session.StudentID, 1); err != nil {
			return apperrors.NewStorageError(err, "failed to charge quota")
		}

		logger.Info().Int64("sessionID", sessionID).Int64("studentID", session.StudentID).
			Msg("Session approved, quota charged")
		return nil
	})
}

// Reject declines a pending request. The quota was never charged, so nothing
// is released.
func (s *SessionService) Reject(ctx context.Context, sessionID int64) error {
	return s.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		session, err := s.lockSession(ctx, tx, sessionID)
		if err != nil {
			return err
		}

		if session.Status != models.SessionPending {
			return apperrors.NewInvalidStateError(
				fmt.Sprintf("session %d is %s, only pending requests can be rejected", sessionID, session.Status))
		}

		if err := s.sessions.UpdateStatus(ctx, tx, sessionID, models.SessionRejected); err != nil {
			return apperrors.NewStorageError(err, "failed to reject session")
		}

		logger.Info().Int64("sessionID", sessionID).Msg("Session rejected")
		return nil
	})
}

// Cancel withdraws the student's own session from any pre-terminal state. The
// quota charge is reversed only when the session had actually been charged,
// i.e. it reached the approved or checked-in state.
func (s *SessionService) Cancel(ctx context.Context, sessionID, byStudentID int64) error {
	return s.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		session, err := s.lockSession(ctx, tx, sessionID)
		if err != nil {
			return err
		}

		if !session.OwnedBy(byStudentID) {
			return apperrors.NewForbiddenError("session belongs to another student")
		}

		if session.Status.IsTerminal() {
			return apperrors.NewInvalidStateError(
				fmt.Sprintf("session %d is already %s", sessionID, session.Status))
		}

		charged := session.Status.IsCharged()

		if err := s.sessions.UpdateStatus(ctx, tx, sessionID, models.SessionCancelled); err != nil {
			return apperrors.NewStorageError(err, "failed to cancel session")
		}

		if charged {
			if err := s.students.AdjustSessionsUsed(ctx, tx, session.StudentID, -1); err != nil {
				return apperrors.NewStorageError(err, "failed to release quota")
			}
		}

		logger.Info().Int64("sessionID", sessionID).Int64("studentID", byStudentID).
			Bool("quotaReleased", charged).Msg("Session cancelled")
		return nil
	})
}

// CheckIn records the student's arrival for an approved session
func (s *SessionService) CheckIn(ctx context.Context, sessionID int64) error {
	return s.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		session, err := s.lockSession(ctx, tx, sessionID)
		if err != nil {
			return err
		}

		if session.CheckInTime != nil {
			return apperrors.NewInvalidStateError(
				fmt.Sprintf("session %d is already checked in", sessionID))
		}
		if session.Status != models.SessionApproved {
			return apperrors.NewInvalidStateError(
				fmt.Sprintf("session %d is %s, only approved sessions can check in", sessionID, session.Status))
		}

		if err := s.sessions.SetCheckIn(ctx, tx, sessionID, time.Now()); err != nil {
			return apperrors.NewStorageError(err, "failed to record check-in")
		}

		logger.Info().Int64("sessionID", sessionID).Msg("Student checked in")
		return nil
	})
}

// CheckOut records the student's departure and completes the session
func (s *SessionService) CheckOut(ctx context.Context, sessionID int64) error {
	return s.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		session, err := s.lockSession(ctx, tx, sessionID)
		if err != nil {
			return err
		}

		if session.Status != models.SessionCheckedIn {
			return apperrors.NewInvalidStateError(
				fmt.Sprintf("session %d is %s, only checked-in sessions can check out", sessionID, session.Status))
		}

		if err := s.sessions.SetCheckOut(ctx, tx, sessionID, time.Now()); err != nil {
			return apperrors.NewStorageError(err, "failed to record check-out")
		}

		logger.Info().Int64("sessionID", sessionID).Msg("Student checked out, session completed")
		return nil
	})
}

// Complete force-completes an approved or checked-in session. Quota is left
// untouched: the charge made at approval stays consumed. Pending requests
// cannot be completed, they are rejected or cancelled instead, so every
// completed session carries exactly one charge.
func (s *SessionService) Complete(ctx context.Context, sessionID int64) error {
	return s.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		session, err := s.lockSession(ctx, tx, sessionID)
		if err != nil {
			return err
		}

		if !session.Status.IsCharged() {
			return apperrors.NewInvalidStateError(
				fmt.Sprintf("session %d is %s, only approved or checked-in sessions can be completed", sessionID, session.Status))
		}

		if err := s.sessions.UpdateStatus(ctx, tx, sessionID, models.SessionCompleted); err != nil {
			return apperrors.NewStorageError(err, "failed to complete session")
		}

		logger.Info().Int64("sessionID", sessionID).Msg("Session force-completed")
		return nil
	})
}

// EndAllActiveForStudent force-completes every approved or checked-in session
// of a student and returns how many were ended
func (s *SessionService) EndAllActiveForStudent(ctx context.Context, studentID int64) (int64, error) {
	var ended int64
	err := s.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		var err error
		ended, err = s.sessions.CompleteAllActive(ctx, tx, studentID)
		if err != nil {
			return apperrors.NewStorageError(err, "failed to end active sessions")
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	logger.Info().Int64("studentID", studentID).Int64("ended", ended).Msg("Ended all active sessions")
	return ended, nil
}

// GetSession retrieves a single session
func (s *SessionService) GetSession(ctx context.Context, sessionID int64) (*models.SitInSession, error) {
	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repositories.ErrSessionNotFound) {
			return nil, apperrors.ErrSessionNotFound
		}
		return nil, fmt.Errorf("error retrieving session: %w", err)
	}
	return session, nil
}

// ListStudentSessions retrieves all sessions belonging to a student
func (s *SessionService) ListStudentSessions(ctx context.Context, studentID int64) ([]*models.SitInSession, error) {
	return s.sessions.ListByStudent(ctx, studentID)
}

// ListPending retrieves requests awaiting an approval decision
func (s *SessionService) ListPending(ctx context.Context) ([]*models.SitInSession, error) {
	return s.sessions.ListPending(ctx)
}

// ListActive retrieves approved and checked-in sessions
func (s *SessionService) ListActive(ctx context.Context) ([]*models.SitInSession, error) {
	return s.sessions.ListActive(ctx)
}

// ListCurrentSitIns retrieves sessions with a student currently in the lab
func (s *SessionService) ListCurrentSitIns(ctx context.Context) ([]*models.SitInSession, error) {
	return s.sessions.ListCurrentSitIns(ctx)
}

// lockSession loads a session under FOR UPDATE and maps the not-found case
func (s *SessionService) lockSession(ctx context.Context, tx pgx.Tx, sessionID int64) (*models.SitInSession, error) {
	session, err := s.sessions.GetByIDForUpdate(ctx, tx, sessionID)
	if err != nil {
		if errors.Is(err, repositories.ErrSessionNotFound) {
			return nil, apperrors.ErrSessionNotFound
		}
		return nil, apperrors.NewStorageError(err, "failed to load session")
	}
	return session, nil
}
