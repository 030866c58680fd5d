package models

import "time"

// Student defines the student model based on the 'students' table
type Student struct {
	ID           int64     `json:"id" db:"id"`
	IDNumber     string    `json:"idNumber" db:"id_number"`   // Enrollment number, unique
	LastName     string    `json:"lastName" db:"last_name"`
	FirstName    string    `json:"firstName" db:"first_name"`
	MiddleName   *string   `json:"middleName,omitempty" db:"middle_name"` // Nullable
	Course       string    `json:"course" db:"course"`                    // Program of study, determines quota tier
	YearLevel    string    `json:"yearLevel" db:"year_level"`
	Email        string    `json:"email" db:"email"`
	Username     string    `json:"username" db:"username"`
	Password     string    `json:"-" db:"password"` // Bcrypt hash, excluded from JSON
	SessionsUsed int       `json:"sessionsUsed" db:"sessions_used"`
	MaxSessions  int       `json:"maxSessions" db:"max_sessions"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

// HasCapacity reports whether the student can still request a sit-in session.
// The ceiling is advisory elsewhere; this is the only hard gate, applied at
// request time.
func (s *Student) HasCapacity() bool {
	return s.SessionsUsed < s.MaxSessions
}

// RemainingSessions returns how many quota-charged sessions are left
func (s *Student) RemainingSessions() int {
	remaining := s.MaxSessions - s.SessionsUsed
	if remaining < 0 {
		return 0
	}
	return remaining
}
