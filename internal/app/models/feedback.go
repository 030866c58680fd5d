package models

import "time"

// Feedback defines the session feedback model based on the 'feedback' table.
// At most one row exists per (session, student) pair; submissions after the
// first update the existing row.
type Feedback struct {
	ID        int64     `json:"id" db:"id"`
	SessionID int64     `json:"sessionId" db:"session_id"`
	StudentID int64     `json:"studentId" db:"student_id"`
	Rating    int       `json:"rating" db:"rating"` // 1-5 star rating
	Comments  string    `json:"comments" db:"comments"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	// Relations (populated when needed)
	Session *SitInSession `json:"session,omitempty"`
	Student *Student      `json:"student,omitempty"`
}
