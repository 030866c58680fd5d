package dto

import "github.com/ccslab/sitin/internal/app/models"

// RegisterRequest is the payload for student registration
type RegisterRequest struct {
	IDNumber   string  `json:"idNumber" binding:"required,idno" example:"20230001"`
	LastName   string  `json:"lastName" binding:"required,min=2,max=50" example:"Reyes"`
	FirstName  string  `json:"firstName" binding:"required,min=2,max=50" example:"Maria"`
	MiddleName *string `json:"middleName,omitempty" binding:"omitempty,max=50"`
	Course     string  `json:"course" binding:"required,max=100" example:"BSIT"`
	YearLevel  string  `json:"yearLevel" binding:"required,max=20" example:"3rd Year"`
	Email      string  `json:"email" binding:"required,email" example:"maria.reyes@ccs.edu"`
	Username   string  `json:"username" binding:"required,min=4,max=50" example:"mreyes"`
	Password   string  `json:"password" binding:"required,min=8" example:"s3cretpass"`
}

// LoginRequest is the payload for student and administrator login
type LoginRequest struct {
	Username string `json:"username" binding:"required" example:"mreyes"`
	Password string `json:"password" binding:"required" example:"s3cretpass"`
}

// AuthResponse carries the issued token and the authenticated identity
type AuthResponse struct {
	Token     string          `json:"token"`
	ExpiresIn int             `json:"expiresIn"` // Seconds
	Role      models.RoleType `json:"role"`
	Student   *models.Student `json:"student,omitempty"`
	Admin     *models.Admin   `json:"admin,omitempty"`
}
