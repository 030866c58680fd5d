package models

import "time"

// ProgrammingLanguage defines a selectable language for session requests,
// based on the 'programming_languages' table
type ProgrammingLanguage struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
