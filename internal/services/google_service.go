package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/flagwatch/flagwatch-backend/internal/config"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v1/userinfo"

var ErrEmailNotVerified = errors.New("email not verified with Google")

// GoogleProfile is the subset of the Google userinfo response the login flow
// needs.
type GoogleProfile struct {
	Email         string `json:"email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
	VerifiedEmail bool   `json:"verified_email"`
}

// GoogleService wraps the OAuth2 authorization-code flow against Google. The
// client settings are injected at construction; there is no package-level
// singleton.
type GoogleService struct {
	oauth *oauth2.Config
}

func NewGoogleService(cfg config.GoogleOAuth) *GoogleService {
	return &GoogleService{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.CallbackURL,
			Scopes:       []string{"email", "profile"},
			Endpoint:     google.Endpoint,
		},
	}
}

// Enabled reports whether a Google client is configured at all.
func (s *GoogleService) Enabled() bool {
	return s.oauth.ClientID != ""
}

func (s *GoogleService) AuthURL(state string) string {
	return s.oauth.AuthCodeURL(state)
}

func (s *GoogleService) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	return s.oauth.Exchange(ctx, code)
}

// FetchProfile retrieves the authenticated user's profile and rejects
// accounts whose email Google has not verified.
func (s *GoogleService) FetchProfile(ctx context.Context, token *oauth2.Token) (*GoogleProfile, error) {
	client := s.oauth.Client(ctx, token)
	resp, err := client.Get(googleUserInfoURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("user info request returned status %d", resp.StatusCode)
	}

	var profile GoogleProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("failed to decode user info: %w", err)
	}
	if profile.Email == "" {
		return nil, errors.New("no email provided by Google")
	}
	if !profile.VerifiedEmail {
		return nil, ErrEmailNotVerified
	}
	return &profile, nil
}
