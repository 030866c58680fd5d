package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/ccslab/sitin/internal/app/models"
	"github.com/ccslab/sitin/internal/app/models/dto"
	"github.com/ccslab/sitin/internal/app/repositories"
	"github.com/ccslab/sitin/internal/pkg/apperrors"
)

// feedbackStore is the feedback persistence consumed by FeedbackService
type feedbackStore interface {
	Upsert(ctx context.Context, feedback *models.Feedback) error
	List(ctx context.Context) ([]*models.Feedback, error)
	Aggregate(ctx context.Context) (*dto.FeedbackStats, error)
}

// sessionGetter is the minimal session lookup needed for ownership checks
type sessionGetter interface {
	GetByID(ctx context.Context, id int64) (*models.SitInSession, error)
}

// FeedbackService handles session feedback submission and reporting
type FeedbackService struct {
	feedback feedbackStore
	sessions sessionGetter
}

// NewFeedbackService creates a new FeedbackService
func NewFeedbackService(feedback feedbackStore, sessions sessionGetter) *FeedbackService {
	return &FeedbackService{
		feedback: feedback,
		sessions: sessions,
	}
}

// Submit records feedback for the student's own session. A second submission
// for the same session updates the earlier row instead of duplicating it.
func (s *FeedbackService) Submit(ctx context.Context, sessionID, studentID int64, rating int, comments string) (*models.Feedback, error) {
	if rating < 1 || rating > 5 {
		return nil, apperrors.ErrInvalidRating
	}

	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repositories.ErrSessionNotFound) {
			return nil, apperrors.ErrSessionNotFound
		}
		return nil, fmt.Errorf("error retrieving session: %w", err)
	}

	if !session.OwnedBy(studentID) {
		return nil, apperrors.NewForbiddenError("session belongs to another student")
	}

	feedback := &models.Feedback{
		SessionID: sessionID,
		StudentID: studentID,
		Rating:    rating,
		Comments:  comments,
	}

	if err := s.feedback.Upsert(ctx, feedback); err != nil {
		return nil, apperrors.NewStorageError(err, "failed to save feedback")
	}

	return feedback, nil
}

// List retrieves all feedback with session and student details
func (s *FeedbackService) List(ctx context.Context) ([]*models.Feedback, error) {
	return s.feedback.List(ctx)
}
