package domain

import "time"

// Role tags a user with its authorization level.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleSupplier Role = "supplier"
)

// Valid reports whether the role is a known value.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleSupplier
}

// User is the identity and authorization record.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	Role         Role
	AvatarPath   *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
