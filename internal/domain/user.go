package domain

import "time"

// User is the domain model for registered accounts.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	Bio          *string
	IsAdmin      bool
	CreatedAt    time.Time
}
