package middleware

import (
	"strings"

	"github.com/flagwatch/flagwatch-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const apiKeyUserLocal = "api_key_user_id"

// OptionalAPIKey resolves an "Authorization: ApiKey <key>" header if present.
// A valid key attached to a user stores that user's ID in context locals;
// anything else leaves the request anonymous. The request proceeds either way.
func OptionalAPIKey(apiKeys *services.APIKeyService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(header, "ApiKey ") {
			return c.Next()
		}

		key, err := apiKeys.Validate(strings.TrimPrefix(header, "ApiKey "))
		if err == nil && key.UserID != nil {
			c.Locals(apiKeyUserLocal, *key.UserID)
		}
		return c.Next()
	}
}

// APIKeyUserID returns the user resolved by OptionalAPIKey, or nil for
// anonymous submissions.
func APIKeyUserID(c *fiber.Ctx) *uuid.UUID {
	if id, ok := c.Locals(apiKeyUserLocal).(uuid.UUID); ok {
		return &id
	}
	return nil
}
