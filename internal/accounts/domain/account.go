package domain

import "time"

// Account is the authoritative identity record held by the credential store.
// Email and Username are immutable once created.
type Account struct {
	ID           string
	FirstName    string
	LastName     string
	Email        string
	Username     string
	PasswordHash string // bcrypt encoded, never leaves the service
	CreatedAt    time.Time
	UpdatedAt    time.Time
	LastLoginAt  *time.Time
}
