package services

import (
	"errors"
	"testing"

	"github.com/flagwatch/flagwatch-backend/internal/dto"
	"github.com/flagwatch/flagwatch-backend/internal/models"
)

func flagRequest(url string) *dto.CreateFlaggedContentRequest {
	return &dto.CreateFlaggedContentRequest{
		URL:         url,
		ContentType: "article",
		Reason:      "fake_news",
	}
}

func TestFlagURLCreatesContentWithFirstFlag(t *testing.T) {
	db := newTestDB(t)
	svc := NewContentService(db)

	content, flag, created, err := svc.FlagURL(flagRequest("https://example.com/story"), nil, nil)
	if err != nil {
		t.Fatalf("FlagURL() error: %v", err)
	}
	if !created {
		t.Error("created = false, want true for a new URL")
	}
	if content.FlagCount != 1 {
		t.Errorf("FlagCount = %d, want 1", content.FlagCount)
	}
	if content.VerificationStatus != models.StatusPending {
		t.Errorf("VerificationStatus = %q, want pending", content.VerificationStatus)
	}
	if flag.FlaggedContentID != content.ID {
		t.Error("flag not linked to content")
	}
	if flag.UserID != nil {
		t.Error("anonymous flag carries a user ID")
	}
}

func TestFlagURLDedupsByURL(t *testing.T) {
	db := newTestDB(t)
	svc := NewContentService(db)

	first, _, _, err := svc.FlagURL(flagRequest("https://example.com/story"), nil, nil)
	if err != nil {
		t.Fatalf("first FlagURL() error: %v", err)
	}

	user := createTestUser(t, db, "alice", models.RoleUser)
	second, flag, created, err := svc.FlagURL(flagRequest("https://example.com/story"), &user.ID, nil)
	if err != nil {
		t.Fatalf("second FlagURL() error: %v", err)
	}
	if created {
		t.Error("created = true, want false for a known URL")
	}
	if second.ID != first.ID {
		t.Error("dedup produced a different content row")
	}
	if second.FlagCount != 2 {
		t.Errorf("FlagCount = %d, want 2", second.FlagCount)
	}
	if flag.UserID == nil || *flag.UserID != user.ID {
		t.Error("second flag not attributed to the API key user")
	}

	var flagCount int64
	db.Model(&models.Flag{}).Where("flagged_content_id = ?", first.ID).Count(&flagCount)
	if flagCount != 2 {
		t.Errorf("stored flags = %d, want 2", flagCount)
	}

	var contentCount int64
	db.Model(&models.FlaggedContent{}).Count(&contentCount)
	if contentCount != 1 {
		t.Errorf("content rows = %d, want 1", contentCount)
	}
}

func TestFlagURLValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewContentService(db)

	tests := []struct {
		name string
		req  *dto.CreateFlaggedContentRequest
	}{
		{"missing url", &dto.CreateFlaggedContentRequest{ContentType: "article", Reason: "fake_news"}},
		{"missing content_type", &dto.CreateFlaggedContentRequest{URL: "https://x.com", Reason: "fake_news"}},
		{"missing reason", &dto.CreateFlaggedContentRequest{URL: "https://x.com", ContentType: "article"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, _, err := svc.FlagURL(tt.req, nil, nil); !errors.Is(err, ErrMissingFields) {
				t.Errorf("FlagURL() error = %v, want ErrMissingFields", err)
			}
		})
	}

	bad := flagRequest("https://x.com")
	bad.ContentType = "podcast"
	if _, _, _, err := svc.FlagURL(bad, nil, nil); !errors.Is(err, ErrInvalidContentType) {
		t.Errorf("FlagURL() error = %v, want ErrInvalidContentType", err)
	}
}

func TestDeleteCascadesFlags(t *testing.T) {
	db := newTestDB(t)
	svc := NewContentService(db)

	content, _, _, err := svc.FlagURL(flagRequest("https://example.com/story"), nil, nil)
	if err != nil {
		t.Fatalf("FlagURL() error: %v", err)
	}
	for i := 0; i < 2; i++ {
		if _, _, _, err := svc.FlagURL(flagRequest("https://example.com/story"), nil, nil); err != nil {
			t.Fatalf("FlagURL() error: %v", err)
		}
	}

	if _, err := svc.Delete(content.ID); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}

	var flagCount int64
	db.Model(&models.Flag{}).Count(&flagCount)
	if flagCount != 0 {
		t.Errorf("orphan flags = %d, want 0", flagCount)
	}
	if _, err := svc.Get(content.ID); !errors.Is(err, ErrContentNotFound) {
		t.Errorf("Get() after delete error = %v, want ErrContentNotFound", err)
	}
}

func TestDeleteUnknownContent(t *testing.T) {
	db := newTestDB(t)
	svc := NewContentService(db)

	user := createTestUser(t, db, "alice", models.RoleUser)
	if _, err := svc.Delete(user.ID); !errors.Is(err, ErrContentNotFound) {
		t.Errorf("Delete() error = %v, want ErrContentNotFound", err)
	}
}

func TestListFiltersAndSearch(t *testing.T) {
	db := newTestDB(t)
	svc := NewContentService(db)

	reqA := flagRequest("https://example.com/breaking-news")
	reqA.Title = strPtr("Breaking News Story")
	if _, _, _, err := svc.FlagURL(reqA, nil, nil); err != nil {
		t.Fatalf("FlagURL() error: %v", err)
	}

	reqB := flagRequest("https://example.com/video-clip")
	reqB.ContentType = "video"
	if _, _, _, err := svc.FlagURL(reqB, nil, nil); err != nil {
		t.Fatalf("FlagURL() error: %v", err)
	}

	page, err := svc.List(ContentListParams{ContentType: "video"})
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if page.Total != 1 || len(page.Items) != 1 {
		t.Fatalf("content_type filter: total = %d, items = %d, want 1/1", page.Total, len(page.Items))
	}
	if page.Items[0].ContentType != models.ContentTypeVideo {
		t.Errorf("filtered item has content_type %q", page.Items[0].ContentType)
	}

	// Case-insensitive substring search over url, title and description.
	page, err = svc.List(ContentListParams{Query: "BREAKING"})
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if page.Total != 1 {
		t.Errorf("search total = %d, want 1", page.Total)
	}

	page, err = svc.List(ContentListParams{})
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if page.Total != 2 {
		t.Errorf("unfiltered total = %d, want 2", page.Total)
	}
}

func TestListClampsPerPage(t *testing.T) {
	db := newTestDB(t)
	svc := NewContentService(db)

	page, err := svc.List(ContentListParams{PerPage: 500})
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if page.PerPage != 100 {
		t.Errorf("PerPage = %d, want clamped to 100", page.PerPage)
	}
}

func TestUpdateFields(t *testing.T) {
	db := newTestDB(t)
	svc := NewContentService(db)

	content, _, _, err := svc.FlagURL(flagRequest("https://example.com/story"), nil, nil)
	if err != nil {
		t.Fatalf("FlagURL() error: %v", err)
	}

	updated, err := svc.Update(content.ID, &dto.UpdateFlaggedContentRequest{
		Title:              strPtr("Corrected title"),
		VerificationStatus: strPtr("verified_misleading"),
	})
	if err != nil {
		t.Fatalf("Update() error: %v", err)
	}

	fetched, err := svc.Get(updated.ID)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if fetched.Title == nil || *fetched.Title != "Corrected title" {
		t.Error("title not updated")
	}
	if fetched.VerificationStatus != models.StatusVerifiedMisleading {
		t.Errorf("VerificationStatus = %q, want verified_misleading", fetched.VerificationStatus)
	}

	if _, err := svc.Update(content.ID, &dto.UpdateFlaggedContentRequest{
		VerificationStatus: strPtr("definitely_true"),
	}); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("Update() error = %v, want ErrInvalidStatus", err)
	}
}

func TestGetByURL(t *testing.T) {
	db := newTestDB(t)
	svc := NewContentService(db)

	if _, err := svc.GetByURL("https://example.com/none"); !errors.Is(err, ErrContentNotFound) {
		t.Errorf("GetByURL() error = %v, want ErrContentNotFound", err)
	}

	if _, _, _, err := svc.FlagURL(flagRequest("https://example.com/story"), nil, nil); err != nil {
		t.Fatalf("FlagURL() error: %v", err)
	}
	content, err := svc.GetByURL("https://example.com/story")
	if err != nil {
		t.Fatalf("GetByURL() error: %v", err)
	}
	if content.URL != "https://example.com/story" {
		t.Errorf("URL = %q", content.URL)
	}
}
