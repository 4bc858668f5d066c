package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/flagwatch/flagwatch-backend/internal/dto"
	"github.com/flagwatch/flagwatch-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MaxSeriesDays caps how far back the snapshot series endpoint may reach.
const MaxSeriesDays = 365

type StatisticsService struct {
	db *gorm.DB
}

func NewStatisticsService(db *gorm.DB) *StatisticsService {
	return &StatisticsService{db: db}
}

// Recompute performs a full aggregate scan of live entity counts and upserts
// the snapshot row for today. Calling it repeatedly with no intervening data
// changes yields the identical row; the counts are best-effort, not a
// transactionally consistent point-in-time view.
func (s *StatisticsService) Recompute() (*models.Statistics, error) {
	today := todayUTC()

	var totalFlags, totalUsers int64
	if err := s.db.Model(&models.Flag{}).Count(&totalFlags).Error; err != nil {
		return nil, fmt.Errorf("failed to count flags: %w", err)
	}
	if err := s.db.Model(&models.User{}).Count(&totalUsers).Error; err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	byStatus := map[models.VerificationStatus]int64{}
	for _, status := range []models.VerificationStatus{
		models.StatusVerifiedFake,
		models.StatusVerifiedMisleading,
		models.StatusVerifiedTrue,
		models.StatusPending,
	} {
		var n int64
		if err := s.db.Model(&models.FlaggedContent{}).
			Where("verification_status = ?", status).Count(&n).Error; err != nil {
			return nil, fmt.Errorf("failed to count %s content: %w", status, err)
		}
		byStatus[status] = n
	}

	snapshot := models.Statistics{
		ID:                      uuid.New(),
		Date:                    today,
		TotalFlags:              int(totalFlags),
		TotalUsers:              int(totalUsers),
		TotalVerifiedFake:       int(byStatus[models.StatusVerifiedFake]),
		TotalVerifiedMisleading: int(byStatus[models.StatusVerifiedMisleading]),
		TotalVerifiedTrue:       int(byStatus[models.StatusVerifiedTrue]),
		TotalPending:            int(byStatus[models.StatusPending]),
	}

	// Single-statement upsert keyed on the date: create if absent, overwrite
	// in place if present. A failure here leaves the previous row untouched.
	err := s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"total_flags", "total_users", "total_verified_fake",
			"total_verified_misleading", "total_verified_true", "total_pending",
		}),
	}).Create(&snapshot).Error
	if err != nil {
		return nil, fmt.Errorf("failed to upsert statistics: %w", err)
	}

	// The conflict path keeps the stored row's ID; re-read so callers always
	// see the durable row.
	var stored models.Statistics
	if err := s.db.Where("date = ?", today).First(&stored).Error; err != nil {
		return nil, err
	}
	return &stored, nil
}

// Series returns snapshot rows with date >= today - daysBack, ascending. On a
// system that has never computed a snapshot it bootstraps one for today first,
// so the endpoint never returns an arbitrarily empty result while data exists.
// Snapshots that are merely older than the window are not backfilled.
func (s *StatisticsService) Series(daysBack int) ([]models.Statistics, error) {
	if daysBack > MaxSeriesDays {
		daysBack = MaxSeriesDays
	}
	if daysBack < 0 {
		daysBack = 30
	}
	start := todayUTC().AddDate(0, 0, -daysBack)

	var rows []models.Statistics
	if err := s.db.Where("date >= ?", start).Order("date ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) > 0 {
		return rows, nil
	}

	var latest models.Statistics
	err := s.db.Order("date DESC").First(&latest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if _, err := s.Recompute(); err != nil {
			return nil, err
		}
		if err := s.db.Where("date >= ?", start).Order("date ASC").Find(&rows).Error; err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}
	return rows, nil
}

// Summary serves the latest snapshot, week-over-week growth rates, and live
// categorical distributions of flagged content. The distributions are computed
// fresh on every call; only the trend data relies on stored snapshots.
func (s *StatisticsService) Summary() (*dto.StatisticsSummary, error) {
	var latest models.Statistics
	err := s.db.Order("date DESC").First(&latest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		recomputed, rerr := s.Recompute()
		if rerr != nil {
			return nil, rerr
		}
		latest = *recomputed
	} else if err != nil {
		return nil, err
	}

	growthRates := map[string]float64{}
	sevenDaysAgo := todayUTC().AddDate(0, 0, -7)
	var old models.Statistics
	if err := s.db.Where("date <= ?", sevenDaysAgo).Order("date DESC").First(&old).Error; err == nil {
		growthRates["flags_growth"] = GrowthRate(old.TotalFlags, latest.TotalFlags)
		growthRates["users_growth"] = GrowthRate(old.TotalUsers, latest.TotalUsers)
		growthRates["verified_fake_growth"] = GrowthRate(old.TotalVerifiedFake, latest.TotalVerifiedFake)
		growthRates["verified_misleading_growth"] = GrowthRate(old.TotalVerifiedMisleading, latest.TotalVerifiedMisleading)
	}

	platforms, err := s.distribution("platform", "platform IS NOT NULL AND platform <> ''")
	if err != nil {
		return nil, err
	}
	contentTypes, err := s.distribution("content_type", "")
	if err != nil {
		return nil, err
	}
	statuses, err := s.distribution("verification_status", "")
	if err != nil {
		return nil, err
	}

	latestResp := dto.NewStatisticsResponse(&latest)
	return &dto.StatisticsSummary{
		LatestStats:                    &latestResp,
		GrowthRates:                    growthRates,
		PlatformDistribution:           platforms,
		ContentTypeDistribution:        contentTypes,
		VerificationStatusDistribution: statuses,
	}, nil
}

func (s *StatisticsService) distribution(column, filter string) (map[string]int64, error) {
	type row struct {
		Label string
		Count int64
	}
	var rows []row
	query := s.db.Model(&models.FlaggedContent{}).
		Select(column + " AS label, COUNT(*) AS count").
		Group(column)
	if filter != "" {
		query = query.Where(filter)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	dist := make(map[string]int64, len(rows))
	for _, r := range rows {
		dist[r.Label] = r.Count
	}
	return dist, nil
}

// GrowthRate compares two snapshot values as a percentage. A metric growing
// from zero reports 100; one flat at zero reports 0.
func GrowthRate(oldValue, newValue int) float64 {
	if oldValue == 0 {
		if newValue > 0 {
			return 100
		}
		return 0
	}
	return float64(newValue-oldValue) / float64(oldValue) * 100
}

func todayUTC() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
