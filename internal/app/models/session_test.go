package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSessionStatusIsTerminal(t *testing.T) {
	assert.False(t, SessionPending.IsTerminal())
	assert.False(t, SessionApproved.IsTerminal())
	assert.False(t, SessionCheckedIn.IsTerminal())
	assert.True(t, SessionCompleted.IsTerminal())
	assert.True(t, SessionRejected.IsTerminal())
	assert.True(t, SessionCancelled.IsTerminal())
}

func TestSessionStatusIsCharged(t *testing.T) {
	// Only the approved and checked-in states carry a quota charge
	assert.False(t, SessionPending.IsCharged())
	assert.True(t, SessionApproved.IsCharged())
	assert.True(t, SessionCheckedIn.IsCharged())
	assert.False(t, SessionCompleted.IsCharged())
	assert.False(t, SessionRejected.IsCharged())
	assert.False(t, SessionCancelled.IsCharged())
}

func TestSessionOwnedBy(t *testing.T) {
	session := &SitInSession{StudentID: 7}
	assert.True(t, session.OwnedBy(7))
	assert.False(t, session.OwnedBy(8))
}

func TestStudentHasCapacity(t *testing.T) {
	student := &Student{SessionsUsed: 24, MaxSessions: 25}
	assert.True(t, student.HasCapacity())

	student.SessionsUsed = 25
	assert.False(t, student.HasCapacity())

	student.SessionsUsed = 26
	assert.False(t, student.HasCapacity())
}

func TestStudentRemainingSessions(t *testing.T) {
	student := &Student{SessionsUsed: 10, MaxSessions: 30}
	assert.Equal(t, 20, student.RemainingSessions())

	// A counter above the ceiling reports zero, not a negative number
	student.SessionsUsed = 31
	assert.Equal(t, 0, student.RemainingSessions())
}
