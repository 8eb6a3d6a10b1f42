package domain

import (
	"context" // Context for repository calls
	"strings" // String manipulation
)

// Role is the authority granted to a user
type Role string

// Known roles
const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// ParseRole accepts USER/ADMIN in any case, with or without the ROLE_ prefix
func ParseRole(s string) (Role, bool) {
	name := strings.ToUpper(strings.TrimSpace(s))
	name = strings.TrimPrefix(name, "ROLE_")
	switch Role(name) {
	case RoleUser:
		return RoleUser, true
	case RoleAdmin:
		return RoleAdmin, true
	}
	return "", false
}

// IsValid reports whether r is a known role
func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User Model
type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`                            // Primary key
	Username string `gorm:"size:50;uniqueIndex;not null" json:"username"`    // Unique username
	Password string `gorm:"size:100;not null" json:"-"`                      // Hashed password, never serialized
	Role     Role   `gorm:"size:20;not null;default:USER;index" json:"role"` // Role: USER or ADMIN
}

// UserRepository is the credential store
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	FindAll(ctx context.Context) ([]User, error)
	FindByID(ctx context.Context, id uint) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindByRole(ctx context.Context, role Role) ([]User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	UpdateRole(ctx context.Context, id uint, role Role) (*User, error)
	Delete(ctx context.Context, id uint) error
}
