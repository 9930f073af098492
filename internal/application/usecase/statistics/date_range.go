// Package statistics contains the ledger rollups and analytical views.
package statistics

import (
	"fmt"
	"time"

	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
)

const (
	// DefaultTrendMonths is the span of the monthly trend when no range is given.
	DefaultTrendMonths = 12
	// MaxMonths bounds month-based lookbacks.
	MaxMonths = 60
	// DefaultRankingLimit is the default top-N of the category ranking.
	DefaultRankingLimit = 10
	// MaxRankingLimit is the largest accepted top-N.
	MaxRankingLimit = 50
)

// DateRange is a half-open [Start, End) instant range.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// monthStart returns the first instant of t's month in UTC.
func monthStart(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// lastMonths returns the range covering the current month and the months-1 before it.
func lastMonths(now time.Time, months int) DateRange {
	end := monthStart(now).AddDate(0, 1, 0)
	return DateRange{Start: end.AddDate(0, -months, 0), End: end}
}

// resolveRange validates optional inclusive day bounds and turns them into a half-open range.
// Missing bounds fall back to fallback.
func resolveRange(startDate, endDate *time.Time, fallback DateRange) (DateRange, error) {
	r := fallback
	if startDate != nil {
		r.Start = startDate.UTC()
	}
	if endDate != nil {
		r.End = endDate.UTC().AddDate(0, 0, 1)
	}

	if !r.End.After(r.Start) {
		return DateRange{}, domainerror.NewStatisticsError(
			domainerror.ErrCodeInvalidDateRange,
			"end date must not be before start date",
			domainerror.ErrInvalidDateRange,
		)
	}
	return r, nil
}

func validateMonths(months int) error {
	if months < 1 || months > MaxMonths {
		return domainerror.NewStatisticsError(
			domainerror.ErrCodeInvalidMonths,
			fmt.Sprintf("months must be between 1 and %d", MaxMonths),
			domainerror.ErrInvalidDateRange,
		)
	}
	return nil
}

func validateLimit(limit int) error {
	if limit < 1 || limit > MaxRankingLimit {
		return domainerror.NewStatisticsError(
			domainerror.ErrCodeInvalidRankingLimit,
			fmt.Sprintf("limit must be between 1 and %d", MaxRankingLimit),
			domainerror.ErrInvalidRankingLimit,
		)
	}
	return nil
}
