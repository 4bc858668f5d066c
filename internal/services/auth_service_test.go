package services

import (
	"errors"
	"testing"

	"github.com/flagwatch/flagwatch-backend/internal/dto"
	"github.com/flagwatch/flagwatch-backend/internal/models"
	"github.com/golang-jwt/jwt/v5"
)

func TestRegisterAndLogin(t *testing.T) {
	db := newTestDB(t)
	cfg := testConfig()
	svc := NewAuthService(db, cfg)

	user, err := svc.Register(&dto.RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("Register() error: %v", err)
	}
	if user.Role != models.RoleUser {
		t.Errorf("Role = %q, want user", user.Role)
	}
	if user.PasswordHash == "password123" {
		t.Error("password stored in clear")
	}

	resp, err := svc.Login(&dto.LoginRequest{Email: "alice@example.com", Password: "password123"})
	if err != nil {
		t.Fatalf("Login() error: %v", err)
	}
	if resp.AccessToken == "" {
		t.Fatal("empty access token")
	}
	if resp.User.LastLogin == nil {
		t.Error("last_login not recorded")
	}

	token, err := jwt.Parse(resp.AccessToken, func(token *jwt.Token) (interface{}, error) {
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		t.Fatalf("issued token does not verify: %v", err)
	}
	claims := token.Claims.(jwt.MapClaims)
	if claims["role"] != "user" {
		t.Errorf("role claim = %v, want user", claims["role"])
	}
	if claims["sub"] != user.ID.String() {
		t.Errorf("sub claim = %v, want %s", claims["sub"], user.ID)
	}
}

func TestRegisterDuplicates(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db, testConfig())

	if _, err := svc.Register(&dto.RegisterRequest{
		Username: "alice", Email: "alice@example.com", Password: "password123",
	}); err != nil {
		t.Fatalf("Register() error: %v", err)
	}

	if _, err := svc.Register(&dto.RegisterRequest{
		Username: "alice", Email: "other@example.com", Password: "password123",
	}); !errors.Is(err, ErrUsernameTaken) {
		t.Errorf("duplicate username: error = %v, want ErrUsernameTaken", err)
	}

	if _, err := svc.Register(&dto.RegisterRequest{
		Username: "alice2", Email: "alice@example.com", Password: "password123",
	}); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("duplicate email: error = %v, want ErrEmailTaken", err)
	}
}

// A concurrent signup can slip past the pre-checks and fail on the unique
// index instead; that path re-checks which field actually collided.
func TestDuplicateSignupField(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db, testConfig())

	createTestUser(t, db, "alice", models.RoleUser)

	if err := svc.duplicateSignupField("alice"); !errors.Is(err, ErrUsernameTaken) {
		t.Errorf("taken username: error = %v, want ErrUsernameTaken", err)
	}
	if err := svc.duplicateSignupField("carol"); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("free username: error = %v, want ErrEmailTaken", err)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db, testConfig())

	if _, err := svc.Register(&dto.RegisterRequest{
		Username: "alice", Email: "alice@example.com", Password: "password123",
	}); err != nil {
		t.Fatalf("Register() error: %v", err)
	}

	if _, err := svc.Login(&dto.LoginRequest{Email: "alice@example.com", Password: "wrong"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: error = %v, want ErrInvalidCredentials", err)
	}
	if _, err := svc.Login(&dto.LoginRequest{Email: "nobody@example.com", Password: "password123"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email: error = %v, want ErrInvalidCredentials", err)
	}
}

func TestLoginWithGoogleProvisionsUser(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db, testConfig())

	profile := &GoogleProfile{
		Email:         "carol@example.com",
		Name:          "Carol",
		Picture:       "https://lh3.example.com/photo.jpg",
		VerifiedEmail: true,
	}

	resp, err := svc.LoginWithGoogle(profile)
	if err != nil {
		t.Fatalf("LoginWithGoogle() error: %v", err)
	}
	if resp.User.Role != models.RoleUser {
		t.Errorf("Role = %q, want user", resp.User.Role)
	}
	if resp.User.PasswordHash != "" {
		t.Error("federated account has a local password credential")
	}
	if resp.User.ProfileImage == nil {
		t.Error("profile image not stored")
	}

	// Password login must be refused for a federated-only account.
	if _, err := svc.Login(&dto.LoginRequest{Email: "carol@example.com", Password: ""}); err == nil {
		t.Error("Login() with empty password succeeded for federated account")
	}

	// Second federated login reuses the same account.
	again, err := svc.LoginWithGoogle(profile)
	if err != nil {
		t.Fatalf("second LoginWithGoogle() error: %v", err)
	}
	if again.User.ID != resp.User.ID {
		t.Error("repeated federated login created a second account")
	}

	var count int64
	db.Model(&models.User{}).Count(&count)
	if count != 1 {
		t.Errorf("user rows = %d, want 1", count)
	}
}

func TestAPIKeyLifecycle(t *testing.T) {
	db := newTestDB(t)
	svc := NewAPIKeyService(db)

	owner := createTestUser(t, db, "alice", models.RoleUser)
	other := createTestUser(t, db, "bob", models.RoleUser)

	key, err := svc.Create(owner.ID, "extension")
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if len(key.Key) != 64 {
		t.Errorf("key length = %d, want 64 hex chars", len(key.Key))
	}
	if !key.IsActive {
		t.Error("new key not active")
	}

	keys, err := svc.ListForUser(owner.ID)
	if err != nil || len(keys) != 1 {
		t.Fatalf("ListForUser() = %d keys, err %v, want 1", len(keys), err)
	}

	validated, err := svc.Validate(key.Key)
	if err != nil {
		t.Fatalf("Validate() error: %v", err)
	}
	if validated.LastUsedAt == nil {
		t.Error("last_used_at not recorded on use")
	}

	if _, err := svc.Validate("not-a-key"); !errors.Is(err, ErrInvalidAPIKey) {
		t.Errorf("unknown key: error = %v, want ErrInvalidAPIKey", err)
	}

	// Deactivated keys stop validating.
	db.Model(&models.ApiKey{}).Where("id = ?", key.ID).Update("is_active", false)
	if _, err := svc.Validate(key.Key); !errors.Is(err, ErrInvalidAPIKey) {
		t.Errorf("inactive key: error = %v, want ErrInvalidAPIKey", err)
	}
	db.Model(&models.ApiKey{}).Where("id = ?", key.ID).Update("is_active", true)

	if err := svc.Delete(key.ID, other.ID); !errors.Is(err, ErrNotKeyOwner) {
		t.Errorf("foreign delete: error = %v, want ErrNotKeyOwner", err)
	}
	if err := svc.Delete(key.ID, owner.ID); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if err := svc.Delete(key.ID, owner.ID); !errors.Is(err, ErrAPIKeyNotFound) {
		t.Errorf("repeat delete: error = %v, want ErrAPIKeyNotFound", err)
	}
}
