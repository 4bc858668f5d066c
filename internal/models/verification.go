package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Verification is a moderator's adjudication of a FlaggedContent. Creating or
// updating one propagates its status onto the parent content (last write wins).
type Verification struct {
	ID               uuid.UUID          `gorm:"type:uuid;primaryKey" json:"id"`
	Status           VerificationStatus `gorm:"size:50;not null" json:"status"`
	Notes            *string            `gorm:"type:text" json:"notes"`
	EvidenceLinks    datatypes.JSON     `gorm:"type:jsonb" json:"evidence_links,omitempty"`
	FlaggedContentID uuid.UUID          `gorm:"type:uuid;not null;index" json:"flagged_content_id"`
	ModeratorID      uuid.UUID          `gorm:"type:uuid;not null;index" json:"moderator_id"`
	CreatedAt        time.Time          `json:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at"`
}
