// Package entity defines the domain entities for the auth feature.
package entity

import "time"

// Role is the authorization level embedded in issued tokens.
type Role string

const (
	// RoleRegular is assigned to every newly registered user.
	RoleRegular Role = "regular"
	// RoleAdmin may mutate movies and trigger the sync job.
	RoleAdmin Role = "admin"
)

// User represents a registered user in the system.
type User struct {
	// ID is the generated identifier (UUID).
	ID string

	FullName string

	// Email is unique across all users.
	Email string

	// Password is the bcrypt hash. It is never returned to clients.
	Password string

	Role Role

	CreatedAt time.Time
	UpdatedAt time.Time
}
