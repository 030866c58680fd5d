package models

import "time"

// SessionStatus is the single lifecycle state of a sit-in session. The
// request/approval handshake and the occupancy phase are folded into one
// progression so the record can never carry two disagreeing status fields.
type SessionStatus string

const (
	// SessionPending is the initial state of a submitted request
	SessionPending SessionStatus = "pending"
	// SessionApproved means an administrator accepted the request; the
	// student's quota has been charged
	SessionApproved SessionStatus = "approved"
	// SessionCheckedIn means the student is physically occupying the lab
	SessionCheckedIn SessionStatus = "checked_in"
	// SessionCompleted is terminal: the sit-in finished normally
	SessionCompleted SessionStatus = "completed"
	// SessionRejected is terminal: an administrator declined the request
	SessionRejected SessionStatus = "rejected"
	// SessionCancelled is terminal: the student withdrew the request
	SessionCancelled SessionStatus = "cancelled"
)

// IsTerminal reports whether no further transitions are allowed
func (s SessionStatus) IsTerminal() bool {
	switch s {
	case SessionCompleted, SessionRejected, SessionCancelled:
		return true
	}
	return false
}

// IsCharged reports whether the student's quota has been consumed for a
// session currently in this state. Exactly the approved and checked-in states
// carry a charge; a later cancellation reverses it.
func (s SessionStatus) IsCharged() bool {
	return s == SessionApproved || s == SessionCheckedIn
}

// IsActive reports whether the session counts as an ongoing sit-in
func (s SessionStatus) IsActive() bool {
	return s.IsCharged()
}

// SitInSession defines the sit-in session model based on the 'sessions' table
type SitInSession struct {
	ID                  int64         `json:"id" db:"id"`
	StudentID           int64         `json:"studentId" db:"student_id"`
	LabRoom             string        `json:"labRoom" db:"lab_room"`
	DateTime            time.Time     `json:"dateTime" db:"date_time"` // Requested start time
	Duration            int           `json:"duration" db:"duration"`  // Requested length in hours
	ProgrammingLanguage *string       `json:"programmingLanguage,omitempty" db:"programming_language"`
	Purpose             *string       `json:"purpose,omitempty" db:"purpose"`
	Status              SessionStatus `json:"status" db:"status"`
	CheckInTime         *time.Time    `json:"checkInTime,omitempty" db:"check_in_time"`
	CheckOutTime        *time.Time    `json:"checkOutTime,omitempty" db:"check_out_time"`
	CreatedAt           time.Time     `json:"createdAt" db:"created_at"`

	// Relations (populated when needed)
	Student *Student `json:"student,omitempty"`
}

// OwnedBy reports whether the session belongs to the given student
func (s *SitInSession) OwnedBy(studentID int64) bool {
	return s.StudentID == studentID
}
