// Package valueobject contains immutable value types shared by the domain.
package valueobject

import (
	"time"

	"github.com/finance-tracker/ledger/internal/domain/entity"
)

// PeriodWindow is an inclusive [Start, End] day range.
type PeriodWindow struct {
	Start time.Time
	End   time.Time
}

// Days returns the number of calendar days covered by the window.
func (w PeriodWindow) Days() int {
	return int(entity.TruncateDay(w.End).Sub(entity.TruncateDay(w.Start)).Hours()/24) + 1
}

// WindowFor returns the natural period window that starts on start.
func WindowFor(period entity.BudgetPeriod, start time.Time) PeriodWindow {
	s := entity.TruncateDay(start)
	var next time.Time
	switch period {
	case entity.BudgetPeriodDaily:
		next = s.AddDate(0, 0, 1)
	case entity.BudgetPeriodWeekly:
		next = s.AddDate(0, 0, 7)
	case entity.BudgetPeriodYearly:
		next = s.AddDate(1, 0, 0)
	default:
		next = addMonthsClamped(s, 1)
	}
	return PeriodWindow{Start: s, End: next.AddDate(0, 0, -1)}
}

// NextWindow returns the window immediately following the budget's current one.
// Month based periods keep month boundaries when the current window is aligned to them.
func NextWindow(period entity.BudgetPeriod, currentEnd time.Time) PeriodWindow {
	return WindowFor(period, entity.TruncateDay(currentEnd).AddDate(0, 0, 1))
}

// DaysUntil counts whole days from now until the end of the given day.
// Returns a negative number once the day has passed.
func DaysUntil(now, end time.Time) int {
	return int(entity.TruncateDay(end).Sub(entity.TruncateDay(now)).Hours() / 24)
}

// addMonthsClamped adds months without overflowing into the following month,
// so Jan 31 + 1 month is Feb 28/29 rather than Mar 2/3.
func addMonthsClamped(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	firstOfTarget := time.Date(y, m+time.Month(months), 1, 0, 0, 0, 0, time.UTC)
	lastDay := firstOfTarget.AddDate(0, 1, -1).Day()
	if d > lastDay {
		d = lastDay
	}
	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), d, 0, 0, 0, 0, time.UTC)
}
