package shift

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrUnknownDayName is returned by DaySet.Resolve for a name outside the
// configured set. Callers treat the line as unmatched, never as fatal.
var ErrUnknownDayName = errors.New("unknown day name")

var canonicalDays = map[string]time.Weekday{
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
	"sunday":    time.Sunday,
}

// DaySet maps accepted day tokens (lowercase) to weekdays. Built from the
// config day_aliases map; the canonical names are always included.
type DaySet map[string]time.Weekday

// NewDaySet builds a DaySet from canonical weekday names and their
// configured aliases. Keys must be English weekday names.
func NewDaySet(aliases map[string][]string) (DaySet, error) {
	ds := make(DaySet, len(aliases)*2)
	for name, extra := range aliases {
		wd, ok := canonicalDays[strings.ToLower(name)]
		if !ok {
			return nil, fmt.Errorf("day_aliases: %q is not a weekday name", name)
		}
		ds[strings.ToLower(name)] = wd
		for _, alias := range extra {
			alias = strings.ToLower(strings.TrimSpace(alias))
			if alias == "" {
				continue
			}
			ds[alias] = wd
		}
	}
	if len(ds) == 0 {
		return nil, errors.New("day_aliases: no day names configured")
	}
	return ds, nil
}

// Resolve maps a day name to its date within the 7-day window starting at
// anchor. Matching is case-insensitive and whitespace-tolerant. The same
// name and anchor always yield the same date.
func (ds DaySet) Resolve(name string, anchor time.Time) (time.Time, error) {
	wd, ok := ds[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return time.Time{}, fmt.Errorf("%w: %q", ErrUnknownDayName, name)
	}

	day := time.Date(anchor.Year(), anchor.Month(), anchor.Day(), 0, 0, 0, 0, anchor.Location())
	offset := (int(wd) - int(day.Weekday()) + 7) % 7
	return day.AddDate(0, 0, offset), nil
}
