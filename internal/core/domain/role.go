package domain

import "time"

// Role is a named permission group a user points at.
type Role struct {
	ID          string
	Name        string
	Description string
	IsDeleted   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
