// Package schedule contains the pure recurrence arithmetic for repeating
// maintenance tasks. All math is calendar-date math: no timezone
// conversion, no wall clock, so the same inputs always yield the same
// next occurrence.
package schedule

import (
	"fmt"
	"time"

	"github.com/example/upkeep/internal/models"
)

// NextOccurrence computes the next scheduled date after from for the given
// recurrence rule. The boolean is false when the rule does not recur
// (frequency none or empty). A custom frequency without a positive day
// count fails with an invalid rule error.
//
// Note time.AddDate normalizes overflow (Jan 31 + 1 month = Mar 2/3), so
// month and year steps clamp the day-of-month explicitly instead:
// Jan 31 -> Feb 28/29, and Feb 29 -> Feb 28 in non-leap target years.
func NextOccurrence(from time.Time, freq models.Frequency, customDays int) (time.Time, bool, error) {
	switch freq {
	case "", models.FrequencyNone:
		return time.Time{}, false, nil
	case models.FrequencyWeekly:
		return from.AddDate(0, 0, 7), true, nil
	case models.FrequencyMonthly:
		return addMonthsClamped(from, 1), true, nil
	case models.FrequencyYearly:
		return addYearsClamped(from, 1), true, nil
	case models.FrequencyCustom:
		if customDays <= 0 {
			return time.Time{}, false, fmt.Errorf("%w: custom frequency requires a positive customDays, got %d", models.ErrInvalidRule, customDays)
		}
		return from.AddDate(0, 0, customDays), true, nil
	default:
		return time.Time{}, false, fmt.Errorf("%w: unknown frequency %q", models.ErrInvalidRule, freq)
	}
}

// addMonthsClamped advances by whole calendar months, clamping the
// day-of-month to the last valid day of the target month.
func addMonthsClamped(from time.Time, months int) time.Time {
	year, month, day := from.Date()
	month += time.Month(months)
	if last := daysIn(year, month); day > last {
		day = last
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// addYearsClamped advances by whole calendar years with the same clamping
// rule, which only matters for Feb 29.
func addYearsClamped(from time.Time, years int) time.Time {
	year, month, day := from.Date()
	year += years
	if last := daysIn(year, month); day > last {
		day = last
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// daysIn returns the number of days in the given month; month may be out
// of the 1..12 range and is normalized the way time.Date normalizes it.
func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
