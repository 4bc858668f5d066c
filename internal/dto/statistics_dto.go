package dto

import (
	"github.com/flagwatch/flagwatch-backend/internal/models"
	"github.com/google/uuid"
)

// StatisticsResponse mirrors one snapshot row with the date rendered as a
// plain calendar date.
type StatisticsResponse struct {
	ID                      uuid.UUID `json:"id"`
	Date                    string    `json:"date"`
	TotalFlags              int       `json:"total_flags"`
	TotalUsers              int       `json:"total_users"`
	TotalVerifiedFake       int       `json:"total_verified_fake"`
	TotalVerifiedMisleading int       `json:"total_verified_misleading"`
	TotalVerifiedTrue       int       `json:"total_verified_true"`
	TotalPending            int       `json:"total_pending"`
}

func NewStatisticsResponse(s *models.Statistics) StatisticsResponse {
	return StatisticsResponse{
		ID:                      s.ID,
		Date:                    s.Date.Format("2006-01-02"),
		TotalFlags:              s.TotalFlags,
		TotalUsers:              s.TotalUsers,
		TotalVerifiedFake:       s.TotalVerifiedFake,
		TotalVerifiedMisleading: s.TotalVerifiedMisleading,
		TotalVerifiedTrue:       s.TotalVerifiedTrue,
		TotalPending:            s.TotalPending,
	}
}

// StatisticsSummary combines the latest snapshot with week-over-week growth
// rates and live categorical distributions. GrowthRates is empty (not zeroed)
// when no snapshot exists at or before the 7-day mark.
type StatisticsSummary struct {
	LatestStats                    *StatisticsResponse `json:"latest_stats"`
	GrowthRates                    map[string]float64  `json:"growth_rates"`
	PlatformDistribution           map[string]int64    `json:"platform_distribution"`
	ContentTypeDistribution        map[string]int64    `json:"content_type_distribution"`
	VerificationStatusDistribution map[string]int64    `json:"verification_status_distribution"`
}
