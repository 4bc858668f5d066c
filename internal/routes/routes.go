package routes

import (
	"time"

	"github.com/flagwatch/flagwatch-backend/internal/config"
	"github.com/flagwatch/flagwatch-backend/internal/handlers"
	"github.com/flagwatch/flagwatch-backend/internal/middleware"
	"github.com/flagwatch/flagwatch-backend/internal/models"
	"github.com/flagwatch/flagwatch-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

type Handlers struct {
	Auth         *handlers.AuthHandler
	APIKey       *handlers.APIKeyHandler
	Google       *handlers.GoogleHandler
	Content      *handlers.ContentHandler
	Verification *handlers.VerificationHandler
	Statistics   *handlers.StatisticsHandler
	Health       *handlers.HealthHandler
}

func Setup(app *fiber.App, cfg *config.Config, apiKeyService *services.APIKeyService, h Handlers) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", h.Health.Check)

	// Auth — public, with a stricter rate limit
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", h.Auth.Register)
	auth.Post("/login", h.Auth.Login)
	auth.Post("/validate-api-key", h.APIKey.Validate)
	auth.Get("/google/login", h.Google.Login)
	auth.Get("/google/callback", h.Google.Callback)

	// Auth — protected
	api.Get("/auth/me", middleware.JWTProtected(cfg), h.Auth.Me)
	api.Get("/auth/api-keys", middleware.JWTProtected(cfg), h.APIKey.List)
	api.Post("/auth/api-keys", middleware.JWTProtected(cfg), h.APIKey.Create)
	api.Delete("/auth/api-keys/:id", middleware.JWTProtected(cfg), h.APIKey.Delete)

	// Flagged content — public reads, API-key-optional submission,
	// moderator/admin mutation
	api.Get("/flagged-content", h.Content.List)
	api.Get("/flagged-content/:id", h.Content.Get)
	api.Post("/flagged-content", middleware.OptionalAPIKey(apiKeyService), h.Content.Create)
	api.Put("/flagged-content/:id",
		middleware.JWTProtected(cfg),
		middleware.RequireRole(models.RoleModerator, models.RoleAdmin),
		h.Content.Update)
	api.Delete("/flagged-content/:id",
		middleware.JWTProtected(cfg),
		middleware.RequireRole(models.RoleModerator, models.RoleAdmin),
		h.Content.Delete)
	api.Get("/check-url", h.Content.CheckURL)

	// Verifications — moderator/admin only, deletion admin only
	verifications := api.Group("/verifications", middleware.JWTProtected(cfg))
	verifications.Get("/",
		middleware.RequireRole(models.RoleModerator, models.RoleAdmin),
		h.Verification.List)
	verifications.Get("/:id",
		middleware.RequireRole(models.RoleModerator, models.RoleAdmin),
		h.Verification.Get)
	verifications.Post("/",
		middleware.RequireRole(models.RoleModerator, models.RoleAdmin),
		h.Verification.Create)
	verifications.Put("/:id",
		middleware.RequireRole(models.RoleModerator, models.RoleAdmin),
		h.Verification.Update)
	verifications.Delete("/:id",
		middleware.RequireRole(models.RoleAdmin),
		h.Verification.Delete)

	// Statistics — public
	api.Get("/statistics", h.Statistics.Series)
	api.Get("/statistics/summary", h.Statistics.Summary)
	api.Post("/statistics/update", h.Statistics.Update)
}
