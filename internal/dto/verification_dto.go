package dto

import (
	"github.com/flagwatch/flagwatch-backend/internal/models"
	"github.com/google/uuid"
)

type CreateVerificationRequest struct {
	FlaggedContentID uuid.UUID `json:"flagged_content_id"`
	Status           string    `json:"status"`
	Notes            *string   `json:"notes"`
	EvidenceLinks    []string  `json:"evidence_links"`
}

type UpdateVerificationRequest struct {
	Status        *string  `json:"status"`
	Notes         *string  `json:"notes"`
	EvidenceLinks []string `json:"evidence_links"`
}

type VerificationPage struct {
	Items   []models.Verification `json:"items"`
	Total   int64                 `json:"total"`
	Pages   int                   `json:"pages"`
	Page    int                   `json:"page"`
	PerPage int                   `json:"per_page"`
}

type VerificationResponse struct {
	Message      string               `json:"message"`
	Verification *models.Verification `json:"verification"`
}
