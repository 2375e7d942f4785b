package auth

import "time"

// Account is the login view of an employee row.
type Account struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	Role         string
	ManagerID    *int64
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
