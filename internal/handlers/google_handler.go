package handlers

import (
	"errors"
	"log/slog"
	"net/url"
	"strings"

	"github.com/flagwatch/flagwatch-backend/internal/config"
	"github.com/flagwatch/flagwatch-backend/internal/dto"
	"github.com/flagwatch/flagwatch-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

// GoogleHandler drives the federated login flow: /google/login hands the
// client an authorization URL with a CSRF state token, /google/callback
// exchanges the code, provisions the user and redirects to the frontend with
// the bearer token in the query string.
type GoogleHandler struct {
	authService   *services.AuthService
	googleService *services.GoogleService
	states        *services.OAuthStateStore
	frontendURL   string
}

func NewGoogleHandler(authService *services.AuthService, googleService *services.GoogleService, states *services.OAuthStateStore, cfg *config.Config) *GoogleHandler {
	return &GoogleHandler{
		authService:   authService,
		googleService: googleService,
		states:        states,
		frontendURL:   cfg.FrontendURL,
	}
}

func (h *GoogleHandler) Login(c *fiber.Ctx) error {
	if !h.googleService.Enabled() {
		return c.Status(fiber.StatusNotImplemented).JSON(dto.ErrorResponse{
			Error: true, Message: "Google sign-in is not configured",
		})
	}

	next := c.Query("next")
	state, err := h.states.Issue(next)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}

	return c.JSON(dto.GoogleLoginResponse{
		AuthURL: h.googleService.AuthURL(state),
	})
}

func (h *GoogleHandler) Callback(c *fiber.Ctx) error {
	state := c.Query("state")
	next, ok := h.states.Consume(state)
	if !ok {
		return h.redirectError(c, "Invalid authentication state")
	}

	code := c.Query("code")
	if code == "" {
		reason := c.Query("error", "Unknown error")
		return h.redirectError(c, reason)
	}

	token, err := h.googleService.Exchange(c.Context(), code)
	if err != nil {
		slog.Error("google code exchange failed", "error", err)
		return h.redirectError(c, "Failed to authenticate with Google")
	}

	profile, err := h.googleService.FetchProfile(c.Context(), token)
	if err != nil {
		if errors.Is(err, services.ErrEmailNotVerified) {
			return h.redirectError(c, "Email not verified with Google")
		}
		slog.Error("google profile fetch failed", "error", err)
		return h.redirectError(c, "Failed to get user info from Google")
	}

	resp, err := h.authService.LoginWithGoogle(profile)
	if err != nil {
		slog.Error("google login failed", "error", err, "email", profile.Email)
		return h.redirectError(c, "Failed to sign in")
	}

	return c.Redirect(callbackTarget(h.frontendURL, resp.AccessToken, next), fiber.StatusFound)
}

// callbackTarget builds the frontend redirect carrying the bearer token. The
// post-login destination bound to the state token is forwarded only when it is
// a relative path, so a crafted value cannot turn the callback into an open
// redirect.
func callbackTarget(frontendURL, accessToken, next string) string {
	target := frontendURL + "/oauth-callback?access_token=" + url.QueryEscape(accessToken)
	if strings.HasPrefix(next, "/") && !strings.HasPrefix(next, "//") {
		target += "&next=" + url.QueryEscape(next)
	}
	return target
}

func (h *GoogleHandler) redirectError(c *fiber.Ctx, reason string) error {
	return c.Redirect(h.frontendURL+"/login?error="+url.QueryEscape(reason), fiber.StatusFound)
}
