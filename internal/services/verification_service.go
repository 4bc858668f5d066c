package services

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/flagwatch/flagwatch-backend/internal/dto"
	"github.com/flagwatch/flagwatch-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var ErrVerificationNotFound = errors.New("verification not found")

type VerificationService struct {
	db *gorm.DB
}

func NewVerificationService(db *gorm.DB) *VerificationService {
	return &VerificationService{db: db}
}

func (s *VerificationService) List(page, perPage int, contentID *uuid.UUID) (*dto.VerificationPage, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}
	if perPage > 100 {
		perPage = 100
	}

	query := s.db.Model(&models.Verification{})
	if contentID != nil {
		query = query.Where("flagged_content_id = ?", *contentID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var items []models.Verification
	offset := (page - 1) * perPage
	if err := query.Order("created_at DESC").Limit(perPage).Offset(offset).Find(&items).Error; err != nil {
		return nil, err
	}

	pages := int((total + int64(perPage) - 1) / int64(perPage))
	return &dto.VerificationPage{
		Items:   items,
		Total:   total,
		Pages:   pages,
		Page:    page,
		PerPage: perPage,
	}, nil
}

func (s *VerificationService) Get(id uuid.UUID) (*models.Verification, error) {
	var verification models.Verification
	if err := s.db.First(&verification, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVerificationNotFound
		}
		return nil, err
	}
	return &verification, nil
}

// Create records a moderation decision and propagates its status onto the
// parent content in the same transaction (last write wins).
func (s *VerificationService) Create(moderatorID uuid.UUID, req *dto.CreateVerificationRequest) (*models.Verification, error) {
	if req.FlaggedContentID == uuid.Nil || req.Status == "" {
		return nil, ErrMissingFields
	}
	status := models.VerificationStatus(req.Status)
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	var content models.FlaggedContent
	if err := s.db.First(&content, "id = ?", req.FlaggedContentID).Error; err != nil {
		return nil, ErrContentNotFound
	}

	verification := models.Verification{
		ID:               uuid.New(),
		Status:           status,
		Notes:            req.Notes,
		EvidenceLinks:    marshalEvidenceLinks(req.EvidenceLinks),
		FlaggedContentID: req.FlaggedContentID,
		ModeratorID:      moderatorID,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&verification).Error; err != nil {
			return err
		}
		return tx.Model(&content).Update("verification_status", status).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create verification: %w", err)
	}
	return &verification, nil
}

func (s *VerificationService) Update(id uuid.UUID, req *dto.UpdateVerificationRequest) (*models.Verification, error) {
	var verification models.Verification
	if err := s.db.First(&verification, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVerificationNotFound
		}
		return nil, err
	}

	updates := map[string]interface{}{}
	var newStatus *models.VerificationStatus
	if req.Status != nil {
		status := models.VerificationStatus(*req.Status)
		if !status.Valid() {
			return nil, ErrInvalidStatus
		}
		updates["status"] = status
		newStatus = &status
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}
	if req.EvidenceLinks != nil {
		updates["evidence_links"] = marshalEvidenceLinks(req.EvidenceLinks)
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(&verification).Updates(updates).Error; err != nil {
				return err
			}
		}
		if newStatus != nil {
			return tx.Model(&models.FlaggedContent{}).
				Where("id = ?", verification.FlaggedContentID).
				Update("verification_status", *newStatus).Error
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update verification: %w", err)
	}

	if err := s.db.First(&verification, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &verification, nil
}

func (s *VerificationService) Delete(id uuid.UUID) error {
	var verification models.Verification
	if err := s.db.First(&verification, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrVerificationNotFound
		}
		return err
	}
	return s.db.Delete(&verification).Error
}

func marshalEvidenceLinks(links []string) datatypes.JSON {
	if len(links) == 0 {
		return nil
	}
	b, err := json.Marshal(links)
	if err != nil {
		return nil
	}
	return datatypes.JSON(b)
}
