package models

import (
	"time"

	"github.com/google/uuid"
)

// ApiKey is a long-lived opaque credential. The key material is returned only
// once at creation time; list responses omit it. UserID is nil for unattached
// keys, which are valid but carry no identity.
type ApiKey struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Key        string     `gorm:"size:64;not null;uniqueIndex" json:"-"`
	Name       string     `gorm:"size:100;not null" json:"name"`
	IsActive   bool       `gorm:"not null;default:true" json:"is_active"`
	UserID     *uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	LastUsedAt *time.Time `json:"last_used_at"`
	CreatedAt  time.Time  `json:"created_at"`
}
