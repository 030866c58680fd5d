package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/ccslab/sitin/internal/app/models"
	"github.com/ccslab/sitin/internal/app/models/dto"
	"github.com/ccslab/sitin/internal/app/repositories"
	"github.com/ccslab/sitin/internal/pkg/apperrors"
	"github.com/ccslab/sitin/internal/pkg/logger"
)

// StudentService handles student profile and roster operations, plus the
// quota reconciliation maintenance pass
type StudentService struct {
	studentRepo *repositories.StudentRepository
	sessionRepo *repositories.SessionRepository
}

// NewStudentService creates a new StudentService
func NewStudentService(studentRepo *repositories.StudentRepository, sessionRepo *repositories.SessionRepository) *StudentService {
	return &StudentService{
		studentRepo: studentRepo,
		sessionRepo: sessionRepo,
	}
}

// GetStudent retrieves a student by ID
func (s *StudentService) GetStudent(ctx context.Context, id int64) (*models.Student, error) {
	student, err := s.studentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrStudentNotFound) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("error retrieving student: %w", err)
	}
	return student, nil
}

// UpdateProfile updates the editable profile fields. A course change
// re-derives the quota ceiling from the new program tier.
func (s *StudentService) UpdateProfile(ctx context.Context, id int64, req *dto.UpdateProfileRequest) (*models.Student, error) {
	student, err := s.GetStudent(ctx, id)
	if err != nil {
		return nil, err
	}

	student.LastName = req.LastName
	student.FirstName = req.FirstName
	student.MiddleName = req.MiddleName
	student.Course = req.Course
	student.YearLevel = req.YearLevel
	student.Email = req.Email
	student.MaxSessions = AssignQuota(req.Course)

	if err := s.studentRepo.UpdateProfile(ctx, student); err != nil {
		if errors.Is(err, repositories.ErrEmailExists) {
			return nil, apperrors.ErrEmailAlreadyExists
		}
		if errors.Is(err, repositories.ErrStudentNotFound) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("error updating profile: %w", err)
	}

	return student, nil
}

// ListStudents retrieves the roster with live active-session counts
func (s *StudentService) ListStudents(ctx context.Context) ([]*dto.StudentSummary, error) {
	return s.studentRepo.List(ctx)
}

// GetStudentDetail pairs a student with their remaining quota and any
// currently active sessions
func (s *StudentService) GetStudentDetail(ctx context.Context, id int64) (*dto.StudentDetail, error) {
	student, err := s.GetStudent(ctx, id)
	if err != nil {
		return nil, err
	}

	active, err := s.sessionRepo.ListActiveByStudent(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error retrieving active sessions: %w", err)
	}

	return &dto.StudentDetail{
		Student:           student,
		RemainingSessions: student.RemainingSessions(),
		ActiveSessions:    active,
	}, nil
}

// DeleteStudent removes a student. Sessions and feedback rows cascade in the
// database.
func (s *StudentService) DeleteStudent(ctx context.Context, id int64) error {
	if err := s.studentRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrStudentNotFound) {
			return apperrors.ErrStudentNotFound
		}
		return fmt.Errorf("error deleting student: %w", err)
	}
	return nil
}

// ReconcileQuotas runs the explicit maintenance pass over the quota ledger:
// ceilings that disagree with the course tier are corrected, and consumption
// counters are recomputed from the session table
func (s *StudentService) ReconcileQuotas(ctx context.Context) (*dto.QuotaReconciliation, error) {
	ceilings, err := s.studentRepo.ReconcileCeilings(ctx, ElevatedPrograms, ElevatedMaxSessions, StandardMaxSessions)
	if err != nil {
		return nil, apperrors.NewStorageError(err, "failed to reconcile quota ceilings")
	}

	counters, err := s.studentRepo.ReconcileCounters(ctx)
	if err != nil {
		return nil, apperrors.NewStorageError(err, "failed to reconcile quota counters")
	}

	result := &dto.QuotaReconciliation{
		CeilingsCorrected: int(ceilings),
		CountersCorrected: int(counters),
	}

	logger.Info().Int("ceilingsCorrected", result.CeilingsCorrected).
		Int("countersCorrected", result.CountersCorrected).Msg("Quota reconciliation completed")
	return result, nil
}
