package models

import (
	"time"

	"github.com/google/uuid"
)

type ContentType string

const (
	ContentTypeArticle       ContentType = "article"
	ContentTypeSocialPost    ContentType = "social_post"
	ContentTypeVideo         ContentType = "video"
	ContentTypeImage         ContentType = "image"
	ContentTypeAdvertisement ContentType = "advertisement"
)

func (t ContentType) Valid() bool {
	switch t {
	case ContentTypeArticle, ContentTypeSocialPost, ContentTypeVideo, ContentTypeImage, ContentTypeAdvertisement:
		return true
	}
	return false
}

type VerificationStatus string

const (
	StatusPending            VerificationStatus = "pending"
	StatusVerifiedFake       VerificationStatus = "verified_fake"
	StatusVerifiedMisleading VerificationStatus = "verified_misleading"
	StatusVerifiedTrue       VerificationStatus = "verified_true"
)

func (s VerificationStatus) Valid() bool {
	switch s {
	case StatusPending, StatusVerifiedFake, StatusVerifiedMisleading, StatusVerifiedTrue:
		return true
	}
	return false
}

// FlaggedContent is one URL under moderation review. The unique index on URL
// is what turns a racing duplicate submission into a recoverable conflict
// instead of a second row.
type FlaggedContent struct {
	ID                 uuid.UUID          `gorm:"type:uuid;primaryKey" json:"id"`
	URL                string             `gorm:"size:2048;not null;uniqueIndex" json:"url"`
	Title              *string            `gorm:"size:255" json:"title"`
	ContentType        ContentType        `gorm:"size:50;not null" json:"content_type"`
	Platform           *string            `gorm:"size:100" json:"platform"`
	Description        *string            `gorm:"type:text" json:"description"`
	ScreenshotPath     *string            `gorm:"size:255" json:"screenshot_path"`
	VerificationStatus VerificationStatus `gorm:"size:50;not null;default:'pending'" json:"verification_status"`
	FlagCount          int                `gorm:"not null;default:1" json:"flag_count"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`

	Flags []Flag `gorm:"foreignKey:FlaggedContentID;constraint:OnDelete:CASCADE" json:"flags,omitempty"`
}

// Flag is a single report against a FlaggedContent. UserID is nil for
// anonymous reports.
type Flag struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Reason           string     `gorm:"size:100;not null" json:"reason"`
	Details          *string    `gorm:"type:text" json:"details"`
	FlaggedContentID uuid.UUID  `gorm:"type:uuid;not null;index" json:"flagged_content_id"`
	UserID           *uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	CreatedAt        time.Time  `json:"created_at"`
}
