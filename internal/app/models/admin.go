package models

import "time"

// Admin defines the administrator model based on the 'admins' table
type Admin struct {
	ID        int64     `json:"id" db:"id"`
	Username  string    `json:"username" db:"username"`
	Password  string    `json:"-" db:"password"` // Bcrypt hash, excluded from JSON
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
