package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ccslab/sitin/internal/app/models"
	"github.com/ccslab/sitin/internal/app/models/dto"
	"github.com/ccslab/sitin/internal/pkg/apperrors"
)

// fakeFeedbackStore mimics the one-row-per-session upsert of the real store
type fakeFeedbackStore struct {
	rows   map[[2]int64]*models.Feedback
	nextID int64
}

func newFakeFeedbackStore() *fakeFeedbackStore {
	return &fakeFeedbackStore{rows: make(map[[2]int64]*models.Feedback), nextID: 1}
}

func (s *fakeFeedbackStore) Upsert(_ context.Context, feedback *models.Feedback) error {
	key := [2]int64{feedback.SessionID, feedback.StudentID}
	if existing, ok := s.rows[key]; ok {
		existing.Rating = feedback.Rating
		existing.Comments = feedback.Comments
		feedback.ID = existing.ID
		feedback.CreatedAt = existing.CreatedAt
		return nil
	}
	feedback.ID = s.nextID
	feedback.CreatedAt = time.Now()
	s.nextID++
	copied := *feedback
	s.rows[key] = &copied
	return nil
}

func (s *fakeFeedbackStore) List(_ context.Context) ([]*models.Feedback, error) {
	var out []*models.Feedback
	for _, row := range s.rows {
		out = append(out, row)
	}
	return out, nil
}

func (s *fakeFeedbackStore) Aggregate(_ context.Context) (*dto.FeedbackStats, error) {
	stats := &dto.FeedbackStats{}
	var sum int
	for _, row := range s.rows {
		stats.TotalFeedback++
		sum += row.Rating
		if row.Rating >= 4 {
			stats.PositiveFeedback++
		}
		if row.Rating <= 2 {
			stats.NegativeFeedback++
		}
	}
	if stats.TotalFeedback > 0 {
		stats.AverageRating = float64(sum) / float64(stats.TotalFeedback)
	}
	return stats, nil
}

func newFeedbackTestService(sessions *fakeSessionStore) (*FeedbackService, *fakeFeedbackStore) {
	store := newFakeFeedbackStore()
	return NewFeedbackService(store, sessions), store
}

func seedSession(t *testing.T, sessions *fakeSessionStore, studentID int64) *models.SitInSession {
	t.Helper()
	session := &models.SitInSession{
		StudentID: studentID,
		LabRoom:   "Lab 2",
		DateTime:  time.Now(),
		Duration:  1,
		Status:    models.SessionCompleted,
	}
	require.NoError(t, sessions.Create(context.Background(), nil, session))
	return session
}

func TestSubmitFeedback(t *testing.T) {
	sessions := newFakeSessionStore()
	session := seedSession(t, sessions, 1)
	svc, store := newFeedbackTestService(sessions)

	feedback, err := svc.Submit(context.Background(), session.ID, 1, 4, "helpful staff")
	require.NoError(t, err)

	assert.NotZero(t, feedback.ID)
	assert.Equal(t, 4, feedback.Rating)
	assert.Len(t, store.rows, 1)
}

func TestSubmitFeedbackReplacesEarlier(t *testing.T) {
	sessions := newFakeSessionStore()
	session := seedSession(t, sessions, 1)
	svc, store := newFeedbackTestService(sessions)

	first, err := svc.Submit(context.Background(), session.ID, 1, 2, "slow machines")
	require.NoError(t, err)

	second, err := svc.Submit(context.Background(), session.ID, 1, 5, "much better now")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, store.rows, 1)
	assert.Equal(t, 5, store.rows[[2]int64{session.ID, 1}].Rating)
}

func TestSubmitFeedbackRatingBounds(t *testing.T) {
	sessions := newFakeSessionStore()
	session := seedSession(t, sessions, 1)
	svc, _ := newFeedbackTestService(sessions)

	for _, rating := range []int{0, -1, 6} {
		_, err := svc.Submit(context.Background(), session.ID, 1, rating, "")
		assert.ErrorIs(t, err, apperrors.ErrInvalidRating, "rating %d", rating)
	}
}

func TestSubmitFeedbackUnknownSession(t *testing.T) {
	svc, _ := newFeedbackTestService(newFakeSessionStore())

	_, err := svc.Submit(context.Background(), 999, 1, 3, "")
	assert.ErrorIs(t, err, apperrors.ErrSessionNotFound)
}

func TestSubmitFeedbackForeignSession(t *testing.T) {
	sessions := newFakeSessionStore()
	session := seedSession(t, sessions, 1)
	svc, _ := newFeedbackTestService(sessions)

	_, err := svc.Submit(context.Background(), session.ID, 2, 3, "")
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}
