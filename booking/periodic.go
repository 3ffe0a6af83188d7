package booking

import (
	"math"
	"time"

	"kinoseat-cli/model"
)

const defaultPeriodOffsetDays = 7

// CalculateSessionCount previews how many sessions the server would
// generate for a periodic config. The range is invalid (ok=false) when
// either time is missing or the end is not strictly after the start; no
// generation is attempted for an invalid range.
func CalculateSessionCount(start, end time.Time, period model.Period) (int, bool) {
	if start.IsZero() || end.IsZero() || !end.After(start) {
		return 0, false
	}
	diffDays := end.Sub(start).Hours() / 24
	if period == model.PeriodEveryWeek {
		return int(math.Floor(diffDays/7)) + 1, true
	}
	return int(math.Floor(diffDays)) + 1, true
}

// DefaultPeriodEnd pre-fills the generation end when periodic mode is
// switched on.
func DefaultPeriodEnd(start time.Time) time.Time {
	return start.AddDate(0, 0, defaultPeriodOffsetDays)
}
