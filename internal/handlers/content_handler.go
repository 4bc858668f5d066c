package handlers

import (
	"errors"
	"log/slog"

	"github.com/flagwatch/flagwatch-backend/internal/dto"
	"github.com/flagwatch/flagwatch-backend/internal/middleware"
	"github.com/flagwatch/flagwatch-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ContentHandler struct {
	contentService *services.ContentService
	screenshots    *services.ScreenshotStore
}

func NewContentHandler(contentService *services.ContentService, screenshots *services.ScreenshotStore) *ContentHandler {
	return &ContentHandler{contentService: contentService, screenshots: screenshots}
}

func (h *ContentHandler) List(c *fiber.Ctx) error {
	page, err := h.contentService.List(services.ContentListParams{
		Page:               c.QueryInt("page", 1),
		PerPage:            c.QueryInt("per_page", 10),
		ContentType:        c.Query("content_type"),
		VerificationStatus: c.Query("verification_status"),
		Query:              c.Query("q"),
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}
	return c.JSON(page)
}

func (h *ContentHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid content ID",
		})
	}

	content, err := h.contentService.Get(id)
	if err != nil {
		if errors.Is(err, services.ErrContentNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Flagged content not found",
			})
		}
		slog.Error("content fetch failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}
	return c.JSON(content)
}

// Create accepts JSON or multipart form submissions. A multipart request may
// carry a "screenshot" file which is stored before the database write; on a
// dedup hit the screenshot of the existing row is kept.
func (h *ContentHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateFlaggedContentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	var screenshotPath *string
	if file, err := c.FormFile("screenshot"); err == nil && file != nil {
		path, err := h.screenshots.Save(file)
		if err != nil {
			slog.Error("screenshot save failed", "error", err)
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
				Error: true, Message: "Failed to store screenshot",
			})
		}
		screenshotPath = &path
	}

	userID := middleware.APIKeyUserID(c)

	content, flag, created, err := h.contentService.FlagURL(&req, userID, screenshotPath)
	if err != nil {
		if screenshotPath != nil {
			_ = h.screenshots.Remove(*screenshotPath)
		}
		if errors.Is(err, services.ErrMissingFields) || errors.Is(err, services.ErrInvalidContentType) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		slog.Error("flag submission failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}

	if created {
		return c.Status(fiber.StatusCreated).JSON(dto.FlagContentResponse{
			Message:        "Content flagged successfully",
			FlaggedContent: content,
			Flag:           flag,
		})
	}

	// Duplicate URL: the submitted screenshot, if any, is orphaned.
	if screenshotPath != nil {
		_ = h.screenshots.Remove(*screenshotPath)
	}
	return c.JSON(dto.FlagContentResponse{
		Message:        "Content already flagged, added your flag",
		FlaggedContent: content,
		Flag:           flag,
	})
}

func (h *ContentHandler) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid content ID",
		})
	}

	var req dto.UpdateFlaggedContentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	content, err := h.contentService.Update(id, &req)
	if err != nil {
		if errors.Is(err, services.ErrContentNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		if errors.Is(err, services.ErrInvalidContentType) || errors.Is(err, services.ErrInvalidStatus) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		slog.Error("content update failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}

	return c.JSON(dto.ContentUpdatedResponse{
		Message:        "Content updated successfully",
		FlaggedContent: content,
	})
}

func (h *ContentHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid content ID",
		})
	}

	content, err := h.contentService.Delete(id)
	if err != nil {
		if errors.Is(err, services.ErrContentNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}

	if content.ScreenshotPath != nil {
		if err := h.screenshots.Remove(*content.ScreenshotPath); err != nil {
			slog.Error("screenshot removal failed", "error", err, "path", *content.ScreenshotPath)
		}
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *ContentHandler) CheckURL(c *fiber.Ctx) error {
	url := c.Query("url")
	if url == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "URL parameter is required",
		})
	}

	content, err := h.contentService.GetByURL(url)
	if err != nil {
		if errors.Is(err, services.ErrContentNotFound) {
			return c.JSON(dto.CheckURLResponse{Flagged: false})
		}
		slog.Error("url check failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}
	return c.JSON(dto.CheckURLResponse{Flagged: true, Content: content})
}
