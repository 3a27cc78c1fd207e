// Package shift turns the plain-text body of a schedule email into
// structured shift records. Extraction is a single linear pass over the
// lines; malformed input degrades to "unmatched", never to an error.
package shift

import (
	"strings"
	"time"

	appLog "shiftcal/internal/log"
	"shiftcal/internal/model"
)

// UnmatchedLine is an input line no pattern recognized, kept for
// diagnostics with its 1-based line number.
type UnmatchedLine struct {
	Line int
	Text string
}

// Stats counts classifier outcomes across one extraction. The four
// counts sum to the number of non-empty input lines.
type Stats struct {
	DayOff    int
	DayHeader int
	TimeRange int
	Unmatched int
}

// Result is the outcome of one extraction pass.
type Result struct {
	Shifts    []model.Shift
	Unmatched []UnmatchedLine
	Stats     Stats
}

// Extractor drives classification across a whole body, tracking the day
// currently being described.
type Extractor struct {
	cls *Classifier
}

func NewExtractor(cls *Classifier) *Extractor {
	return &Extractor{cls: cls}
}

// Extract parses the body against the anchor date. Lines are processed in
// order with a day cursor:
//
//   - a day-off keyword clears the cursor, so a rest day never accumulates
//     shifts from stray time ranges further down;
//   - a day header resolves to a date and sets the cursor; an unresolvable
//     name leaves the cursor alone and records the line as unmatched;
//   - a time range emits one shift against the cursor, or is unmatched
//     when no day has been established yet;
//   - anything else is recorded as unmatched.
//
// The same body and anchor always produce the same ordered result.
func (e *Extractor) Extract(body string, anchor time.Time) Result {
	var res Result
	var cursor time.Time
	haveDay := false

	for i, raw := range strings.Split(body, "\n") {
		text := strings.TrimSpace(raw)
		if text == "" {
			continue
		}
		lineNo := i + 1

		cl := e.cls.Classify(text)
		switch cl.Kind {
		case LineDayOff:
			res.Stats.DayOff++
			haveDay = false
			appLog.Debug("rest day", "line", lineNo, "text", text)

		case LineDayHeader:
			res.Stats.DayHeader++
			date, err := e.cls.Days().Resolve(cl.DayName, anchor)
			if err != nil {
				appLog.Warn("day header not resolved", "line", lineNo, "name", cl.DayName)
				res.Unmatched = append(res.Unmatched, UnmatchedLine{Line: lineNo, Text: text})
				continue
			}
			cursor = date
			haveDay = true

		case LineTimeRange:
			res.Stats.TimeRange++
			if !haveDay {
				// A time range cannot exist without a known day.
				appLog.Warn("time range before any day header", "line", lineNo, "text", text)
				res.Unmatched = append(res.Unmatched, UnmatchedLine{Line: lineNo, Text: text})
				continue
			}
			res.Shifts = append(res.Shifts, model.Shift{
				Date:  cursor,
				Start: cl.Start,
				End:   cl.End,
			})

		default:
			res.Stats.Unmatched++
			res.Unmatched = append(res.Unmatched, UnmatchedLine{Line: lineNo, Text: text})
		}
	}

	appLog.Info("extraction completed",
		"shifts", len(res.Shifts),
		"unmatched", len(res.Unmatched),
		"anchor", anchor.Format("2006-01-02"),
	)
	return res
}
