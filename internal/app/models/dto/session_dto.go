package dto

import "time"

// CreateSessionRequest is the payload for requesting a sit-in session
type CreateSessionRequest struct {
	LabRoom             string    `json:"labRoom" binding:"required,labroom" example:"Lab 3"`
	DateTime            time.Time `json:"dateTime" binding:"required" example:"2025-05-12T14:00:00Z"`
	Duration            int       `json:"duration" binding:"required,min=1,max=8" example:"2"` // Hours
	ProgrammingLanguage *string   `json:"programmingLanguage,omitempty" binding:"omitempty,max=50" example:"Python"`
	Purpose             *string   `json:"purpose,omitempty" binding:"omitempty,max=500"`
}

// SubmitFeedbackRequest is the payload for rating a sit-in session
type SubmitFeedbackRequest struct {
	Rating   int    `json:"rating" binding:"required,min=1,max=5" example:"4"`
	Comments string `json:"comments" binding:"omitempty,max=1000"`
}
