package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ccslab/sitin/internal/app/models"
	"github.com/ccslab/sitin/internal/app/models/dto"
	"github.com/ccslab/sitin/internal/app/repositories"
	"github.com/ccslab/sitin/internal/pkg/apperrors"
)

// fakeTxRunner satisfies txRunner without a database. The nil transaction is
// never touched by the fake stores.
type fakeTxRunner struct{}

func (fakeTxRunner) WithTransaction(ctx context.Context, fn func(ctx context.Context, tx pgx.Tx) error) error {
	return fn(ctx, nil)
}

// fakeSessionStore keeps sessions in a map keyed by ID
type fakeSessionStore struct {
	sessions map[int64]*models.SitInSession
	nextID   int64
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: make(map[int64]*models.SitInSession), nextID: 1}
}

func (s *fakeSessionStore) Create(_ context.Context, _ repositories.Querier, session *models.SitInSession) error {
	session.ID = s.nextID
	session.CreatedAt = time.Now()
	s.nextID++
	copied := *session
	s.sessions[session.ID] = &copied
	return nil
}

func (s *fakeSessionStore) get(id int64) (*models.SitInSession, error) {
	session, ok := s.sessions[id]
	if !ok {
		return nil, repositories.ErrSessionNotFound
	}
	copied := *session
	return &copied, nil
}

func (s *fakeSessionStore) GetByID(_ context.Context, id int64) (*models.SitInSession, error) {
	return s.get(id)
}

func (s *fakeSessionStore) GetByIDForUpdate(_ context.Context, _ repositories.Querier, id int64) (*models.SitInSession, error) {
	return s.get(id)
}

func (s *fakeSessionStore) ListByStudent(_ context.Context, studentID int64) ([]*models.SitInSession, error) {
	var out []*models.SitInSession
	for _, session := range s.sessions {
		if session.StudentID == studentID {
			out = append(out, session)
		}
	}
	return out, nil
}

func (s *fakeSessionStore) ListPending(_ context.Context) ([]*models.SitInSession, error) {
	return s.byStatus(models.SessionPending), nil
}

func (s *fakeSessionStore) ListActive(_ context.Context) ([]*models.SitInSession, error) {
	return append(s.byStatus(models.SessionApproved), s.byStatus(models.SessionCheckedIn)...), nil
}

func (s *fakeSessionStore) ListCurrentSitIns(_ context.Context) ([]*models.SitInSession, error) {
	return s.byStatus(models.SessionCheckedIn), nil
}

func (s *fakeSessionStore) byStatus(status models.SessionStatus) []*models.SitInSession {
	var out []*models.SitInSession
	for _, session := range s.sessions {
		if session.Status == status {
			out = append(out, session)
		}
	}
	return out
}

func (s *fakeSessionStore) UpdateStatus(_ context.Context, _ repositories.Querier, id int64, status models.SessionStatus) error {
	session, ok := s.sessions[id]
	if !ok {
		return repositories.ErrSessionNotFound
	}
	session.Status = status
	return nil
}

func (s *fakeSessionStore) SetCheckIn(_ context.Context, _ repositories.Querier, id int64, at time.Time) error {
	session, ok := s.sessions[id]
	if !ok {
		return repositories.ErrSessionNotFound
	}
	session.Status = models.SessionCheckedIn
	session.CheckInTime = &at
	return nil
}

func (s *fakeSessionStore) SetCheckOut(_ context.Context, _ repositories.Querier, id int64, at time.Time) error {
	session, ok := s.sessions[id]
	if !ok {
		return repositories.ErrSessionNotFound
	}
	session.Status = models.SessionCompleted
	session.CheckOutTime = &at
	return nil
}

func (s *fakeSessionStore) CompleteAllActive(_ context.Context, _ repositories.Querier, studentID int64) (int64, error) {
	var count int64
	for _, session := range s.sessions {
		if session.StudentID == studentID && session.Status.IsActive() {
			session.Status = models.SessionCompleted
			count++
		}
	}
	return count, nil
}

// fakeQuotaStore keeps student quota rows in a map keyed by ID
type fakeQuotaStore struct {
	students map[int64]*models.Student
}

func newFakeQuotaStore(students ...*models.Student) *fakeQuotaStore {
	store := &fakeQuotaStore{students: make(map[int64]*models.Student)}
	for _, student := range students {
		store.students[student.ID] = student
	}
	return store
}

func (s *fakeQuotaStore) GetByIDForUpdate(_ context.Context, _ repositories.Querier, id int64) (*models.Student, error) {
	student, ok := s.students[id]
	if !ok {
		return nil, repositories.ErrStudentNotFound
	}
	copied := *student
	return &copied, nil
}

func (s *fakeQuotaStore) AdjustSessionsUsed(_ context.Context, _ repositories.Querier, id int64, delta int) error {
	student, ok := s.students[id]
	if !ok {
		return repositories.ErrStudentNotFound
	}
	student.SessionsUsed += delta
	if student.SessionsUsed < 0 {
		student.SessionsUsed = 0
	}
	return nil
}

func newTestService(students ...*models.Student) (*SessionService, *fakeSessionStore, *fakeQuotaStore) {
	sessions := newFakeSessionStore()
	quota := newFakeQuotaStore(students...)
	return NewSessionService(fakeTxRunner{}, sessions, quota), sessions, quota
}

func testStudent(id int64, used, max int) *models.Student {
	return &models.Student{
		ID:           id,
		IDNumber:     "20230001",
		LastName:     "Reyes",
		FirstName:    "Maria",
		Course:       "BSIT",
		YearLevel:    "3rd Year",
		SessionsUsed: used,
		MaxSessions:  max,
	}
}

func testRequest() *dto.CreateSessionRequest {
	return &dto.CreateSessionRequest{
		LabRoom:  "Lab 3",
		DateTime: time.Now().Add(24 * time.Hour),
		Duration: 2,
	}
}

func TestRequestSessionStartsPending(t *testing.T) {
	svc, _, _ := newTestService(testStudent(1, 0, 25))

	session, err := svc.RequestSession(context.Background(), 1, testRequest())
	require.NoError(t, err)

	assert.Equal(t, models.SessionPending, session.Status)
	assert.Equal(t, int64(1), session.StudentID)
	assert.NotZero(t, session.ID)
}

func TestRequestSessionDoesNotChargeQuota(t *testing.T) {
	svc, _, quota := newTestService(testStudent(1, 5, 25))

	_, err := svc.RequestSession(context.Background(), 1, testRequest())
	require.NoError(t, err)

	assert.Equal(t, 5, quota.students[1].SessionsUsed)
}

func TestRequestSessionQuotaExhausted(t *testing.T) {
	svc, _, _ := newTestService(testStudent(1, 25, 25))

	_, err := svc.RequestSession(context.Background(), 1, testRequest())
	assert.ErrorIs(t, err, apperrors.ErrQuotaExceeded)
}

func TestRequestSessionUnknownStudent(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.RequestSession(context.Background(), 42, testRequest())
	assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)
}

func TestApproveChargesQuotaOnce(t *testing.T) {
	svc, store, quota := newTestService(testStudent(1, 0, 25))

	session, err := svc.RequestSession(context.Background(), 1, testRequest())
	require.NoError(t, err)

	require.NoError(t, svc.Approve(context.Background(), session.ID))
	assert.Equal(t, 1, quota.students[1].SessionsUsed)
	assert.Equal(t, models.SessionApproved, store.sessions[session.ID].Status)

	// Second approval must fail and must not double-charge
	err = svc.Approve(context.Background(), session.ID)
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)
	assert.Equal(t, 1, quota.students[1].SessionsUsed)
}

func TestApproveUnknownSession(t *testing.T) {
	svc, _, _ := newTestService(testStudent(1, 0, 25))

	err := svc.Approve(context.Background(), 999)
	assert.ErrorIs(t, err, apperrors.ErrSessionNotFound)
}

func TestRejectLeavesQuotaUntouched(t *testing.T) {
	svc, store, quota := newTestService(testStudent(1, 3, 25))

	session, err := svc.RequestSession(context.Background(), 1, testRequest())
	require.NoError(t, err)

	require.NoError(t, svc.Reject(context.Background(), session.ID))
	assert.Equal(t, models.SessionRejected, store.sessions[session.ID].Status)
	assert.Equal(t, 3, quota.students[1].SessionsUsed)
}

func TestRejectRequiresPending(t *testing.T) {
	svc, _, _ := newTestService(testStudent(1, 0, 25))

	session, err := svc.RequestSession(context.Background(), 1, testRequest())
	require.NoError(t, err)
	require.NoError(t, svc.Approve(context.Background(), session.ID))

	err = svc.Reject(context.Background(), session.ID)
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)
}

func TestCancelPendingDoesNotReleaseQuota(t *testing.T) {
	svc, store, quota := newTestService(testStudent(1, 4, 25))

	session, err := svc.RequestSession(context.Background(), 1, testRequest())
	require.NoError(t, err)

	require.NoError(t, svc.Cancel(context.Background(), session.ID, 1))
	assert.Equal(t, models.SessionCancelled, store.sessions[session.ID].Status)
	assert.Equal(t, 4, quota.students[1].SessionsUsed)
}

func TestCancelApprovedReleasesQuota(t *testing.T) {
	svc, _, quota := newTestService(testStudent(1, 0, 25))

	session, err := svc.RequestSession(context.Background(), 1, testRequest())
	require.NoError(t, err)
	require.NoError(t, svc.Approve(context.Background(), session.ID))
	require.Equal(t, 1, quota.students[1].SessionsUsed)

	require.NoError(t, svc.Cancel(context.Background(), session.ID, 1))
	assert.Equal(t, 0, quota.students[1].SessionsUsed)
}

func TestCancelCheckedInReleasesQuota(t *testing.T) {
	svc, _, quota := newTestService(testStudent(1, 0, 25))

	session, err := svc.RequestSession(context.Background(), 1, testRequest())
	require.NoError(t, err)
	require.NoError(t, svc.Approve(context.Background(), session.ID))
	require.NoError(t, svc.CheckIn(context.Background(), session.ID))

	require.NoError(t, svc.Cancel(context.Background(), session.ID, 1))
	assert.Equal(t, 0, quota.students[1].SessionsUsed)
}

func TestCancelByAnotherStudentForbidden(t *testing.T) {
	svc, _, _ := newTestService(testStudent(1, 0, 25))

	session, err := svc.RequestSession(context.Background(), 1, testRequest())
	require.NoError(t, err)

	err = svc.Cancel(context.Background(), session.ID, 2)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestCancelTerminalSessionFails(t *testing.T) {
	svc, _, _ := newTestService(testStudent(1, 0, 25))

	session, err := svc.RequestSession(context.Background(), 1, testRequest())
	require.NoError(t, err)
	require.NoError(t, svc.Reject(context.Background(), session.ID))

	err = svc.Cancel(context.Background(), session.ID, 1)
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)
}

func TestCheckInRequiresApproval(t *testing.T) {
	svc, _, _ := newTestService(testStudent(1, 0, 25))

	session, err := svc.RequestSession(context.Background(), 1, testRequest())
	require.NoError(t, err)

	err = svc.CheckIn(context.Background(), session.ID)
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)
}

func TestCheckInTwiceFails(t *testing.T) {
	svc, _, _ := newTestService(testStudent(1, 0, 25))

	session, err := svc.RequestSession(context.Background(), 1, testRequest())
	require.NoError(t, err)
	require.NoError(t, svc.Approve(context.Background(), session.ID))
	require.NoError(t, svc.CheckIn(context.Background(), session.ID))

	err = svc.CheckIn(context.Background(), session.ID)
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)
}

func TestCheckOutWithoutCheckInFails(t *testing.T) {
	svc, _, _ := newTestService(testStudent(1, 0, 25))

	session, err := svc.RequestSession(context.Background(), 1, testRequest())
	require.NoError(t, err)
	require.NoError(t, svc.Approve(context.Background(), session.ID))

	err = svc.CheckOut(context.Background(), session.ID)
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)
}

func TestCheckOutAfterCancelFails(t *testing.T) {
	svc, store, quota := newTestService(testStudent(1, 0, 25))

	session, err := svc.RequestSession(context.Background(), 1, testRequest())
	require.NoError(t, err)
	require.NoError(t, svc.Approve(context.Background(), session.ID))
	require.NoError(t, svc.CheckIn(context.Background(), session.ID))
	require.NoError(t, svc.Cancel(context.Background(), session.ID, 1))

	// The cancelled session keeps its check-in timestamp, but check-out must
	// not resurrect it
	err = svc.CheckOut(context.Background(), session.ID)
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)
	assert.Equal(t, models.SessionCancelled, store.sessions[session.ID].Status)
	assert.Equal(t, 0, quota.students[1].SessionsUsed)
}

func TestCheckOutCompletesSession(t *testing.T) {
	svc, store, quota := newTestService(testStudent(1, 0, 25))

	session, err := svc.RequestSession(context.Background(), 1, testRequest())
	require.NoError(t, err)
	require.NoError(t, svc.Approve(context.Background(), session.ID))
	require.NoError(t, svc.CheckIn(context.Background(), session.ID))
	require.NoError(t, svc.CheckOut(context.Background(), session.ID))

	stored := store.sessions[session.ID]
	assert.Equal(t, models.SessionCompleted, stored.Status)
	assert.NotNil(t, stored.CheckOutTime)
	// The charge made at approval stays consumed
	assert.Equal(t, 1, quota.students[1].SessionsUsed)
}

func TestCompleteKeepsQuotaCharged(t *testing.T) {
	svc, store, quota := newTestService(testStudent(1, 0, 25))

	session, err := svc.RequestSession(context.Background(), 1, testRequest())
	require.NoError(t, err)
	require.NoError(t, svc.Approve(context.Background(), session.ID))

	require.NoError(t, svc.Complete(context.Background(), session.ID))
	assert.Equal(t, models.SessionCompleted, store.sessions[session.ID].Status)
	assert.Equal(t, 1, quota.students[1].SessionsUsed)
}

func TestCompletePendingSessionFails(t *testing.T) {
	svc, store, quota := newTestService(testStudent(1, 0, 25))

	session, err := svc.RequestSession(context.Background(), 1, testRequest())
	require.NoError(t, err)

	// A request that was never approved was never charged, so it cannot land
	// in completed where the counter recompute would bill it
	err = svc.Complete(context.Background(), session.ID)
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)
	assert.Equal(t, models.SessionPending, store.sessions[session.ID].Status)
	assert.Equal(t, 0, quota.students[1].SessionsUsed)
}

func TestCompleteTerminalSessionFails(t *testing.T) {
	svc, _, _ := newTestService(testStudent(1, 0, 25))

	session, err := svc.RequestSession(context.Background(), 1, testRequest())
	require.NoError(t, err)
	require.NoError(t, svc.Approve(context.Background(), session.ID))
	require.NoError(t, svc.Complete(context.Background(), session.ID))

	err = svc.Complete(context.Background(), session.ID)
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)
}

func TestEndAllActiveForStudent(t *testing.T) {
	svc, store, _ := newTestService(testStudent(1, 0, 25))

	first, err := svc.RequestSession(context.Background(), 1, testRequest())
	require.NoError(t, err)
	second, err := svc.RequestSession(context.Background(), 1, testRequest())
	require.NoError(t, err)
	third, err := svc.RequestSession(context.Background(), 1, testRequest())
	require.NoError(t, err)

	require.NoError(t, svc.Approve(context.Background(), first.ID))
	require.NoError(t, svc.Approve(context.Background(), second.ID))
	require.NoError(t, svc.CheckIn(context.Background(), second.ID))

	ended, err := svc.EndAllActiveForStudent(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), ended)

	assert.Equal(t, models.SessionCompleted, store.sessions[first.ID].Status)
	assert.Equal(t, models.SessionCompleted, store.sessions[second.ID].Status)
	assert.Equal(t, models.SessionPending, store.sessions[third.ID].Status)
}

func TestTransactionErrorSurfaces(t *testing.T) {
	svc, store, _ := newTestService(testStudent(1, 0, 25))

	session, err := svc.RequestSession(context.Background(), 1, testRequest())
	require.NoError(t, err)

	delete(store.sessions, session.ID)
	err = svc.Approve(context.Background(), session.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrSessionNotFound))
}
