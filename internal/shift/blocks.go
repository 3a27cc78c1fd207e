package shift

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	appLog "shiftcal/internal/log"
	"shiftcal/internal/model"
)

// Format identifies which extractor a body should go through.
type Format int

const (
	// FormatRota is a weekly rota: day-name headers followed by 24-hour
	// time ranges, anchored to a week start date.
	FormatRota Format = iota
	// FormatBlocks is the rostering-notification format: numbered
	// "Work Site" blocks with explicit dates and 12-hour times.
	FormatBlocks
)

func (f Format) String() string {
	if f == FormatBlocks {
		return "blocks"
	}
	return "rota"
}

// Patterns for the block notification format:
//
//	1. Work Site: (CAR) Carrington FOH
//	Position: Bartender
//	Date: 02/03/2026
//	Time: 03:00 PM - 11:00 PM
var (
	blockHeaderRe = regexp.MustCompile(`(?im)^\s*\d+\.\s+Work Site:`)
	workSiteRe    = regexp.MustCompile(`(?i)^(?:\d+\.\s*)?Work Site:\s*(.+)`)
	positionRe    = regexp.MustCompile(`(?i)^Position:\s*(.+)`)
	dateLineRe    = regexp.MustCompile(`(?i)^Date:\s*(\d{2}/\d{2}/\d{4})`)
	timeLineRe    = regexp.MustCompile(`(?i)^Time:\s*(\d{1,2}):(\d{2})\s*(AM|PM)\s*-\s*(\d{1,2}):(\d{2})\s*(AM|PM)`)
)

// DetectFormat picks the extractor for a body: blocks when a numbered
// "Work Site" header is present, otherwise the weekly rota format.
func DetectFormat(body string) Format {
	if blockHeaderRe.MatchString(body) {
		return FormatBlocks
	}
	return FormatRota
}

// ExtractBlocks parses the block notification format. Dates are explicit
// (DD/MM/YYYY) so no anchor is needed; each block yields one shift titled
// "Position @ Work Site". Blocks missing a date or time are skipped.
func ExtractBlocks(body string, loc *time.Location) []model.Shift {
	idx := blockHeaderRe.FindAllStringIndex(body, -1)
	shifts := make([]model.Shift, 0, len(idx))

	for i, span := range idx {
		end := len(body)
		if i+1 < len(idx) {
			end = idx[i+1][0]
		}
		if s, ok := parseBlock(body[span[0]:end], loc); ok {
			shifts = append(shifts, s)
		}
	}

	if len(shifts) == 0 {
		appLog.Warn("no shift blocks found", "block_headers", len(idx))
	}
	return shifts
}

func parseBlock(block string, loc *time.Location) (model.Shift, bool) {
	var (
		date             time.Time
		haveDate         bool
		start, endOfDay  model.ClockTime
		haveTime         bool
		position, site   string
	)

	for _, raw := range strings.Split(block, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		switch {
		case workSiteRe.MatchString(line):
			site = strings.TrimSpace(workSiteRe.FindStringSubmatch(line)[1])
		case positionRe.MatchString(line):
			position = strings.TrimSpace(positionRe.FindStringSubmatch(line)[1])
		case dateLineRe.MatchString(line):
			d, err := time.ParseInLocation("02/01/2006", dateLineRe.FindStringSubmatch(line)[1], loc)
			if err == nil {
				date = d
				haveDate = true
			}
		case timeLineRe.MatchString(line):
			m := timeLineRe.FindStringSubmatch(line)
			s, okS := parseClock12(m[1], m[2], m[3])
			e, okE := parseClock12(m[4], m[5], m[6])
			if okS && okE {
				start, endOfDay = s, e
				haveTime = true
			}
		}
	}

	if !haveDate || !haveTime {
		return model.Shift{}, false
	}

	return model.Shift{
		Date:  date,
		Start: start,
		End:   endOfDay,
		Title: blockTitle(position, site),
	}, true
}

// parseClock12 converts a 12-hour clock reading to 24-hour ClockTime.
func parseClock12(hourStr, minStr, meridiem string) (model.ClockTime, bool) {
	hour, err := strconv.Atoi(hourStr)
	if err != nil || hour < 1 || hour > 12 {
		return model.ClockTime{}, false
	}
	minute, err := strconv.Atoi(minStr)
	if err != nil {
		return model.ClockTime{}, false
	}
	if hour == 12 {
		hour = 0
	}
	if strings.EqualFold(meridiem, "PM") {
		hour += 12
	}
	c := model.ClockTime{Hour: hour, Minute: minute}
	return c, c.Valid()
}

func blockTitle(position, site string) string {
	parts := make([]string, 0, 2)
	if position != "" {
		parts = append(parts, position)
	}
	if site != "" {
		parts = append(parts, site)
	}
	if len(parts) == 0 {
		return "Work Shift"
	}
	return strings.Join(parts, " @ ")
}
