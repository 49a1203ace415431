package simulation

import "time"

// NonWorkingDay is the one day per week the warehouse does not receive.
// The warehouse runs a six-day working week with Sunday off.
const NonWorkingDay = time.Sunday

// DayOrder lists weekday names in reporting order.
var DayOrder = []string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

// AddWorkingDays advances a date by the given number of working days,
// skipping the non-working day. Lead times are quoted in working days, so
// order arrival dates always land on a working day.
func AddWorkingDays(start time.Time, workingDays int) time.Time {
	current := start
	added := 0
	for added < workingDays {
		current = current.AddDate(0, 0, 1)
		if current.Weekday() != NonWorkingDay {
			added++
		}
	}
	return current
}

// Horizon returns every calendar date from start to end inclusive. Dates are
// normalized to midnight UTC so they can be used directly as map keys.
// An inverted range yields an empty horizon.
func Horizon(start, end time.Time) []time.Time {
	start = Midnight(start)
	end = Midnight(end)

	var dates []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates
}

// Midnight truncates a timestamp to its calendar date in UTC.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
