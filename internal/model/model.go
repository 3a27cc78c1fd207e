package model

import (
	"fmt"
	"time"
)

// ClockTime is a time of day with minute resolution, 24-hour semantics.
type ClockTime struct {
	Hour   int
	Minute int
}

// Valid reports whether the hour and minute are in range.
func (c ClockTime) Valid() bool {
	return c.Hour >= 0 && c.Hour <= 23 && c.Minute >= 0 && c.Minute <= 59
}

// Minutes returns the offset from midnight in minutes.
func (c ClockTime) Minutes() int {
	return c.Hour*60 + c.Minute
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// Shift represents one worked shift extracted from an email body.
// Immutable once created; the serializer turns each one into a VEVENT.
type Shift struct {
	// Date is the calendar date of the shift at midnight in the
	// extraction timezone. Only the Y/M/D components are meaningful.
	Date time.Time

	Start ClockTime
	End   ClockTime

	// Title is an optional human-readable label (e.g. "Bartender @ (CAR)
	// Carrington FOH"). Empty means the serializer uses its configured
	// default summary.
	Title string
}

// At combines the shift date with a time of day in the given location.
func (s Shift) At(c ClockTime, loc *time.Location) time.Time {
	return time.Date(s.Date.Year(), s.Date.Month(), s.Date.Day(), c.Hour, c.Minute, 0, 0, loc)
}
