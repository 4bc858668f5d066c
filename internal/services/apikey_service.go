package services

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/flagwatch/flagwatch-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrAPIKeyNotFound = errors.New("API key not found")
	ErrNotKeyOwner    = errors.New("API key belongs to another user")
	ErrInvalidAPIKey  = errors.New("invalid API key")
)

type APIKeyService struct {
	db *gorm.DB
}

func NewAPIKeyService(db *gorm.DB) *APIKeyService {
	return &APIKeyService{db: db}
}

func (s *APIKeyService) Create(userID uuid.UUID, name string) (*models.ApiKey, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return nil, fmt.Errorf("failed to generate key: %w", err)
	}

	key := models.ApiKey{
		ID:       uuid.New(),
		Key:      hex.EncodeToString(raw),
		Name:     name,
		IsActive: true,
		UserID:   &userID,
	}

	if err := s.db.Create(&key).Error; err != nil {
		return nil, fmt.Errorf("failed to store API key: %w", err)
	}
	return &key, nil
}

func (s *APIKeyService) ListForUser(userID uuid.UUID) ([]models.ApiKey, error) {
	var keys []models.ApiKey
	if err := s.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&keys).Error; err != nil {
		return nil, err
	}
	return keys, nil
}

func (s *APIKeyService) Delete(id, userID uuid.UUID) error {
	var key models.ApiKey
	if err := s.db.First(&key, "id = ?", id).Error; err != nil {
		return ErrAPIKeyNotFound
	}
	if key.UserID == nil || *key.UserID != userID {
		return ErrNotKeyOwner
	}
	return s.db.Delete(&key).Error
}

// Validate looks up an active key and records the use. The returned key's
// UserID (possibly nil) is the identity the caller acts under.
func (s *APIKeyService) Validate(raw string) (*models.ApiKey, error) {
	var key models.ApiKey
	if err := s.db.Where("key = ? AND is_active = ?", raw, true).First(&key).Error; err != nil {
		return nil, ErrInvalidAPIKey
	}

	now := time.Now().UTC()
	s.db.Model(&key).Update("last_used_at", now)
	key.LastUsedAt = &now
	return &key, nil
}
