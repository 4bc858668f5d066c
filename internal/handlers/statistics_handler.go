package handlers

import (
	"log/slog"

	"github.com/flagwatch/flagwatch-backend/internal/dto"
	"github.com/flagwatch/flagwatch-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type StatisticsHandler struct {
	statisticsService *services.StatisticsService
}

func NewStatisticsHandler(statisticsService *services.StatisticsService) *StatisticsHandler {
	return &StatisticsHandler{statisticsService: statisticsService}
}

func (h *StatisticsHandler) Series(c *fiber.Ctx) error {
	rows, err := h.statisticsService.Series(c.QueryInt("days", 30))
	if err != nil {
		slog.Error("statistics series failed", "error", err)
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
			Error: true, Message: "Statistics temporarily unavailable",
		})
	}

	resp := make([]dto.StatisticsResponse, len(rows))
	for i := range rows {
		resp[i] = dto.NewStatisticsResponse(&rows[i])
	}
	return c.JSON(resp)
}

func (h *StatisticsHandler) Summary(c *fiber.Ctx) error {
	summary, err := h.statisticsService.Summary()
	if err != nil {
		slog.Error("statistics summary failed", "error", err)
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
			Error: true, Message: "Statistics temporarily unavailable",
		})
	}
	return c.JSON(summary)
}

func (h *StatisticsHandler) Update(c *fiber.Ctx) error {
	if _, err := h.statisticsService.Recompute(); err != nil {
		slog.Error("statistics recompute failed", "error", err)
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
			Error: true, Message: "Statistics temporarily unavailable",
		})
	}
	return c.JSON(dto.MessageResponse{Message: "Statistics updated successfully"})
}
