package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/flagwatch/flagwatch-backend/internal/dto"
	"github.com/flagwatch/flagwatch-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrContentNotFound    = errors.New("flagged content not found")
	ErrMissingFields      = errors.New("missing required fields")
	ErrInvalidContentType = errors.New("invalid content_type")
	ErrInvalidStatus      = errors.New("invalid verification status")
)

type ContentService struct {
	db *gorm.DB
}

func NewContentService(db *gorm.DB) *ContentService {
	return &ContentService{db: db}
}

type ContentListParams struct {
	Page               int
	PerPage            int
	ContentType        string
	VerificationStatus string
	Query              string
}

func (s *ContentService) List(p ContentListParams) (*dto.FlaggedContentPage, error) {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PerPage < 1 {
		p.PerPage = 10
	}
	if p.PerPage > 100 {
		p.PerPage = 100
	}

	query := s.db.Model(&models.FlaggedContent{})
	if p.ContentType != "" {
		query = query.Where("content_type = ?", p.ContentType)
	}
	if p.VerificationStatus != "" {
		query = query.Where("verification_status = ?", p.VerificationStatus)
	}
	if p.Query != "" {
		pattern := "%" + strings.ToLower(p.Query) + "%"
		query = query.Where(
			"LOWER(url) LIKE ? OR LOWER(title) LIKE ? OR LOWER(description) LIKE ?",
			pattern, pattern, pattern,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var items []models.FlaggedContent
	offset := (p.Page - 1) * p.PerPage
	if err := query.Order("created_at DESC").Limit(p.PerPage).Offset(offset).Find(&items).Error; err != nil {
		return nil, err
	}

	pages := int((total + int64(p.PerPage) - 1) / int64(p.PerPage))
	return &dto.FlaggedContentPage{
		Items:   items,
		Total:   total,
		Pages:   pages,
		Page:    p.Page,
		PerPage: p.PerPage,
	}, nil
}

func (s *ContentService) Get(id uuid.UUID) (*models.FlaggedContent, error) {
	var content models.FlaggedContent
	if err := s.db.Preload("Flags").First(&content, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContentNotFound
		}
		return nil, err
	}
	return &content, nil
}

func (s *ContentService) GetByURL(url string) (*models.FlaggedContent, error) {
	var content models.FlaggedContent
	if err := s.db.Where("url = ?", url).First(&content).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContentNotFound
		}
		return nil, err
	}
	return &content, nil
}

// FlagURL records one report. A URL seen for the first time gets a
// FlaggedContent row plus its first Flag in one transaction; a known URL gets
// one more Flag and an incremented flag_count. The bool result is true when a
// new content row was created. Two submissions racing on the same new URL are
// resolved by the unique index on url: the loser observes a duplicate-key
// error and is retried down the append path.
func (s *ContentService) FlagURL(req *dto.CreateFlaggedContentRequest, userID *uuid.UUID, screenshotPath *string) (*models.FlaggedContent, *models.Flag, bool, error) {
	if req.URL == "" || req.ContentType == "" || req.Reason == "" {
		return nil, nil, false, ErrMissingFields
	}
	if !models.ContentType(req.ContentType).Valid() {
		return nil, nil, false, ErrInvalidContentType
	}

	var content models.FlaggedContent
	err := s.db.Where("url = ?", req.URL).First(&content).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		content = models.FlaggedContent{
			ID:                 uuid.New(),
			URL:                req.URL,
			Title:              req.Title,
			ContentType:        models.ContentType(req.ContentType),
			Platform:           req.Platform,
			Description:        req.Description,
			ScreenshotPath:     screenshotPath,
			VerificationStatus: models.StatusPending,
			FlagCount:          1,
		}
		flag := models.Flag{
			ID:               uuid.New(),
			Reason:           req.Reason,
			Details:          req.Details,
			FlaggedContentID: content.ID,
			UserID:           userID,
		}
		err = s.db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&content).Error; err != nil {
				return err
			}
			return tx.Create(&flag).Error
		})
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost the insert race; the URL exists now.
			if err := s.db.Where("url = ?", req.URL).First(&content).Error; err != nil {
				return nil, nil, false, fmt.Errorf("failed to resolve duplicate url: %w", err)
			}
			return s.appendFlag(&content, req, userID)
		}
		if err != nil {
			return nil, nil, false, fmt.Errorf("failed to create flagged content: %w", err)
		}
		return &content, &flag, true, nil
	}
	if err != nil {
		return nil, nil, false, fmt.Errorf("failed to look up url: %w", err)
	}

	return s.appendFlag(&content, req, userID)
}

func (s *ContentService) appendFlag(content *models.FlaggedContent, req *dto.CreateFlaggedContentRequest, userID *uuid.UUID) (*models.FlaggedContent, *models.Flag, bool, error) {
	flag := models.Flag{
		ID:               uuid.New(),
		Reason:           req.Reason,
		Details:          req.Details,
		FlaggedContentID: content.ID,
		UserID:           userID,
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&flag).Error; err != nil {
			return err
		}
		return tx.Model(&models.FlaggedContent{}).
			Where("id = ?", content.ID).
			UpdateColumn("flag_count", gorm.Expr("flag_count + 1")).Error
	})
	if err != nil {
		return nil, nil, false, fmt.Errorf("failed to add flag: %w", err)
	}

	if err := s.db.First(content, "id = ?", content.ID).Error; err != nil {
		return nil, nil, false, err
	}
	return content, &flag, false, nil
}

func (s *ContentService) Update(id uuid.UUID, req *dto.UpdateFlaggedContentRequest) (*models.FlaggedContent, error) {
	var content models.FlaggedContent
	if err := s.db.First(&content, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContentNotFound
		}
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.ContentType != nil {
		if !models.ContentType(*req.ContentType).Valid() {
			return nil, ErrInvalidContentType
		}
		updates["content_type"] = *req.ContentType
	}
	if req.Platform != nil {
		updates["platform"] = *req.Platform
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.VerificationStatus != nil {
		if !models.VerificationStatus(*req.VerificationStatus).Valid() {
			return nil, ErrInvalidStatus
		}
		updates["verification_status"] = *req.VerificationStatus
	}

	if len(updates) > 0 {
		if err := s.db.Model(&content).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return &content, nil
}

// Delete removes the content together with all of its flags and verifications
// in one transaction. The caller is responsible for removing the screenshot
// file; the pre-delete row is returned for that purpose.
func (s *ContentService) Delete(id uuid.UUID) (*models.FlaggedContent, error) {
	var content models.FlaggedContent
	if err := s.db.First(&content, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContentNotFound
		}
		return nil, err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("flagged_content_id = ?", id).Delete(&models.Flag{}).Error; err != nil {
			return err
		}
		if err := tx.Where("flagged_content_id = ?", id).Delete(&models.Verification{}).Error; err != nil {
			return err
		}
		return tx.Delete(&content).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to delete flagged content: %w", err)
	}
	return &content, nil
}
