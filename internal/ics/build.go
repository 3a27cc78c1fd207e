// Package ics serializes shift records to an iCalendar file.
package ics

import (
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	appLog "shiftcal/internal/log"
	"shiftcal/internal/model"
)

const prodID = "-//shiftcal//shift schedule//EN"

// uidNamespace seeds deterministic event UIDs. The same shift always
// serializes with the same UID, so re-importing an updated file replaces
// events instead of duplicating them.
var uidNamespace = uuid.MustParse("9b2f41d6-3c8a-4e1f-b6d0-5a7c92e84f13")

// Options configures calendar serialization.
type Options struct {
	// Location is the IANA timezone shifts are anchored in.
	Location *time.Location

	// Summary is used for shifts that carry no title.
	Summary string

	// Anchor is the week start date, used for the calendar display name.
	Anchor time.Time
}

// Build converts shifts into a calendar, one timed VEVENT per shift.
// Overnight shifts (end not after start) roll the end to the next day.
func Build(shifts []model.Shift, opts Options) *ical.Calendar {
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(prodID)
	cal.SetXWRCalName("Shifts week of " + opts.Anchor.Format("2006-01-02"))
	cal.SetXWRTimezone(loc.String())

	now := time.Now().UTC()

	for _, s := range shifts {
		start := s.At(s.Start, loc)
		end := s.At(s.End, loc)
		if !end.After(start) {
			// Overnight shift, e.g. 22:00-06:00.
			end = end.AddDate(0, 0, 1)
		}

		ev := cal.AddEvent(eventUID(s))
		ev.SetDtStampTime(now)
		ev.SetStartAt(start)
		ev.SetEndAt(end)

		summary := s.Title
		if summary == "" {
			summary = opts.Summary
		}
		if summary == "" {
			summary = "Shift"
		}
		ev.SetSummary(summary)
	}

	appLog.Info("calendar built", "events", len(shifts), "timezone", loc.String())
	return cal
}

// eventUID derives a stable UID from the shift's date and times.
func eventUID(s model.Shift) string {
	key := s.Date.Format("2006-01-02") + "/" + s.Start.String() + "-" + s.End.String() + "/" + s.Title
	return uuid.NewSHA1(uidNamespace, []byte(key)).String() + "@shiftcal"
}
