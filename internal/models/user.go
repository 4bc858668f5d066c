package models

import (
	"time"

	"github.com/google/uuid"
)

// Role is the authorization level carried in JWT claims and checked
// against an explicit allow-set per protected route.
type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleModerator, RoleAdmin:
		return true
	}
	return false
}

// User owns flags, verifications and API keys. PasswordHash is empty for
// accounts provisioned through Google sign-in.
type User struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Username     string     `gorm:"size:80;not null;uniqueIndex" json:"username"`
	Email        string     `gorm:"size:255;not null;uniqueIndex" json:"email"`
	PasswordHash string     `gorm:"size:255" json:"-"`
	Role         Role       `gorm:"size:20;not null;default:'user'" json:"role"`
	Reputation   int        `gorm:"not null;default:0" json:"reputation"`
	ProfileImage *string    `gorm:"size:512" json:"profile_image,omitempty"`
	LastLogin    *time.Time `json:"last_login"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
