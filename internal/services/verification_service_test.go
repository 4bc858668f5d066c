package services

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/flagwatch/flagwatch-backend/internal/dto"
	"github.com/flagwatch/flagwatch-backend/internal/models"
	"github.com/google/uuid"
)

func TestCreateVerificationPropagatesStatus(t *testing.T) {
	db := newTestDB(t)
	contentSvc := NewContentService(db)
	svc := NewVerificationService(db)

	moderator := createTestUser(t, db, "mod", models.RoleModerator)
	content, _, _, err := contentSvc.FlagURL(flagRequest("https://example.com/story"), nil, nil)
	if err != nil {
		t.Fatalf("FlagURL() error: %v", err)
	}

	verification, err := svc.Create(moderator.ID, &dto.CreateVerificationRequest{
		FlaggedContentID: content.ID,
		Status:           "verified_fake",
		Notes:            strPtr("matches known hoax"),
		EvidenceLinks:    []string{"https://factcheck.example.com/123"},
	})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if verification.ModeratorID != moderator.ID {
		t.Error("verification not attributed to the moderator")
	}

	var links []string
	if err := json.Unmarshal(verification.EvidenceLinks, &links); err != nil || len(links) != 1 {
		t.Errorf("EvidenceLinks = %s, want one link", verification.EvidenceLinks)
	}

	fetched, err := contentSvc.Get(content.ID)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if fetched.VerificationStatus != models.StatusVerifiedFake {
		t.Errorf("content status = %q, want verified_fake", fetched.VerificationStatus)
	}
}

func TestCreateVerificationValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewVerificationService(db)
	moderator := createTestUser(t, db, "mod", models.RoleModerator)

	if _, err := svc.Create(moderator.ID, &dto.CreateVerificationRequest{Status: "verified_fake"}); !errors.Is(err, ErrMissingFields) {
		t.Errorf("missing content id: error = %v, want ErrMissingFields", err)
	}

	if _, err := svc.Create(moderator.ID, &dto.CreateVerificationRequest{
		FlaggedContentID: uuid.New(),
		Status:           "verified_fake",
	}); !errors.Is(err, ErrContentNotFound) {
		t.Errorf("unknown content: error = %v, want ErrContentNotFound", err)
	}
}

func TestCreateVerificationRejectsUnknownStatus(t *testing.T) {
	db := newTestDB(t)
	contentSvc := NewContentService(db)
	svc := NewVerificationService(db)

	moderator := createTestUser(t, db, "mod", models.RoleModerator)
	content, _, _, err := contentSvc.FlagURL(flagRequest("https://example.com/story"), nil, nil)
	if err != nil {
		t.Fatalf("FlagURL() error: %v", err)
	}

	if _, err := svc.Create(moderator.ID, &dto.CreateVerificationRequest{
		FlaggedContentID: content.ID,
		Status:           "definitely_true",
	}); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("Create() error = %v, want ErrInvalidStatus", err)
	}

	verification, err := svc.Create(moderator.ID, &dto.CreateVerificationRequest{
		FlaggedContentID: content.ID,
		Status:           "verified_fake",
	})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if _, err := svc.Update(verification.ID, &dto.UpdateVerificationRequest{
		Status: strPtr("definitely_true"),
	}); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("Update() error = %v, want ErrInvalidStatus", err)
	}
}

func TestUpdateVerificationRepropagatesStatus(t *testing.T) {
	db := newTestDB(t)
	contentSvc := NewContentService(db)
	svc := NewVerificationService(db)

	moderator := createTestUser(t, db, "mod", models.RoleModerator)
	content, _, _, err := contentSvc.FlagURL(flagRequest("https://example.com/story"), nil, nil)
	if err != nil {
		t.Fatalf("FlagURL() error: %v", err)
	}

	verification, err := svc.Create(moderator.ID, &dto.CreateVerificationRequest{
		FlaggedContentID: content.ID,
		Status:           "verified_fake",
	})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	updated, err := svc.Update(verification.ID, &dto.UpdateVerificationRequest{
		Status: strPtr("verified_true"),
	})
	if err != nil {
		t.Fatalf("Update() error: %v", err)
	}
	if updated.Status != models.StatusVerifiedTrue {
		t.Errorf("verification status = %q, want verified_true", updated.Status)
	}

	fetched, err := contentSvc.Get(content.ID)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if fetched.VerificationStatus != models.StatusVerifiedTrue {
		t.Errorf("content status = %q, want verified_true", fetched.VerificationStatus)
	}
}

func TestListVerificationsFiltersByContent(t *testing.T) {
	db := newTestDB(t)
	contentSvc := NewContentService(db)
	svc := NewVerificationService(db)

	moderator := createTestUser(t, db, "mod", models.RoleModerator)
	first, _, _, err := contentSvc.FlagURL(flagRequest("https://example.com/a"), nil, nil)
	if err != nil {
		t.Fatalf("FlagURL() error: %v", err)
	}
	second, _, _, err := contentSvc.FlagURL(flagRequest("https://example.com/b"), nil, nil)
	if err != nil {
		t.Fatalf("FlagURL() error: %v", err)
	}

	for _, id := range []uuid.UUID{first.ID, first.ID, second.ID} {
		if _, err := svc.Create(moderator.ID, &dto.CreateVerificationRequest{
			FlaggedContentID: id,
			Status:           "verified_misleading",
		}); err != nil {
			t.Fatalf("Create() error: %v", err)
		}
	}

	page, err := svc.List(1, 10, &first.ID)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if page.Total != 2 {
		t.Errorf("filtered total = %d, want 2", page.Total)
	}

	page, err = svc.List(1, 10, nil)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if page.Total != 3 {
		t.Errorf("unfiltered total = %d, want 3", page.Total)
	}
}

func TestDeleteVerification(t *testing.T) {
	db := newTestDB(t)
	contentSvc := NewContentService(db)
	svc := NewVerificationService(db)

	moderator := createTestUser(t, db, "mod", models.RoleModerator)
	content, _, _, err := contentSvc.FlagURL(flagRequest("https://example.com/a"), nil, nil)
	if err != nil {
		t.Fatalf("FlagURL() error: %v", err)
	}
	verification, err := svc.Create(moderator.ID, &dto.CreateVerificationRequest{
		FlaggedContentID: content.ID,
		Status:           "verified_fake",
	})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	if err := svc.Delete(verification.ID); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if _, err := svc.Get(verification.ID); !errors.Is(err, ErrVerificationNotFound) {
		t.Errorf("Get() after delete error = %v, want ErrVerificationNotFound", err)
	}

	if err := svc.Delete(uuid.New()); !errors.Is(err, ErrVerificationNotFound) {
		t.Errorf("Delete() of unknown id error = %v, want ErrVerificationNotFound", err)
	}
}
