package models

import (
	"time"

	"github.com/google/uuid"
)

// Statistics is one daily snapshot of aggregate system counts, computed by a
// full re-scan of live state. At most one row exists per calendar date.
type Statistics struct {
	ID                      uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Date                    time.Time `gorm:"type:date;not null;uniqueIndex" json:"date"`
	TotalFlags              int       `gorm:"not null;default:0" json:"total_flags"`
	TotalUsers              int       `gorm:"not null;default:0" json:"total_users"`
	TotalVerifiedFake       int       `gorm:"not null;default:0" json:"total_verified_fake"`
	TotalVerifiedMisleading int       `gorm:"not null;default:0" json:"total_verified_misleading"`
	TotalVerifiedTrue       int       `gorm:"not null;default:0" json:"total_verified_true"`
	TotalPending            int       `gorm:"not null;default:0" json:"total_pending"`
}
