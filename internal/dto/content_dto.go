package dto

import "github.com/flagwatch/flagwatch-backend/internal/models"

// CreateFlaggedContentRequest is accepted as JSON or multipart form fields;
// url, content_type and reason are required.
type CreateFlaggedContentRequest struct {
	URL         string  `json:"url" form:"url"`
	ContentType string  `json:"content_type" form:"content_type"`
	Reason      string  `json:"reason" form:"reason"`
	Title       *string `json:"title" form:"title"`
	Platform    *string `json:"platform" form:"platform"`
	Description *string `json:"description" form:"description"`
	Details     *string `json:"details" form:"details"`
}

type UpdateFlaggedContentRequest struct {
	Title              *string `json:"title"`
	ContentType        *string `json:"content_type"`
	Platform           *string `json:"platform"`
	Description        *string `json:"description"`
	VerificationStatus *string `json:"verification_status"`
}

type FlaggedContentPage struct {
	Items   []models.FlaggedContent `json:"items"`
	Total   int64                   `json:"total"`
	Pages   int                     `json:"pages"`
	Page    int                     `json:"page"`
	PerPage int                     `json:"per_page"`
}

type FlagContentResponse struct {
	Message        string                 `json:"message"`
	FlaggedContent *models.FlaggedContent `json:"flagged_content"`
	Flag           *models.Flag           `json:"flag"`
}

type ContentUpdatedResponse struct {
	Message        string                 `json:"message"`
	FlaggedContent *models.FlaggedContent `json:"flagged_content"`
}

type CheckURLResponse struct {
	Flagged bool                   `json:"flagged"`
	Content *models.FlaggedContent `json:"content,omitempty"`
}
