package dto

import "github.com/ccslab/sitin/internal/app/models"

// UpdateProfileRequest is the payload for editing a student profile.
// Changing the course re-tiers the session quota ceiling.
type UpdateProfileRequest struct {
	LastName   string  `json:"lastName" binding:"required,min=2,max=50"`
	FirstName  string  `json:"firstName" binding:"required,min=2,max=50"`
	MiddleName *string `json:"middleName,omitempty" binding:"omitempty,max=50"`
	Course     string  `json:"course" binding:"required,max=100"`
	YearLevel  string  `json:"yearLevel" binding:"required,max=20"`
	Email      string  `json:"email" binding:"required,email"`
}

// StudentDetail pairs a student with their live session state, as shown on
// the administrator roster
type StudentDetail struct {
	Student           *models.Student        `json:"student"`
	RemainingSessions int                    `json:"remainingSessions"`
	ActiveSessions    []*models.SitInSession `json:"activeSessions"`
}

// StudentSummary is a roster row with the active-session count
type StudentSummary struct {
	models.Student
	ActiveSessions int `json:"activeSessions" db:"active_sessions"`
}
