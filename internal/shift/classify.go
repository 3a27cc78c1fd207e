package shift

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"shiftcal/internal/model"
)

// LineKind classifies one non-empty input line.
type LineKind int

const (
	LineUnmatched LineKind = iota
	LineDayOff
	LineDayHeader
	LineTimeRange
)

func (k LineKind) String() string {
	switch k {
	case LineDayOff:
		return "day_off"
	case LineDayHeader:
		return "day_header"
	case LineTimeRange:
		return "time_range"
	default:
		return "unmatched"
	}
}

// Line is the result of classifying a single input line.
type Line struct {
	Kind LineKind

	// Text is the trimmed original line, kept for diagnostics.
	Text string

	// DayName is set for LineDayHeader. It is the raw token; resolution
	// against the configured day set happens later.
	DayName string

	// Start/End are set for LineTimeRange.
	Start model.ClockTime
	End   model.ClockTime
}

// Options configures a Classifier. Fields mirror the config surface.
type Options struct {
	// TimeRangePattern must expose four capture groups:
	// start hour, start minute, end hour, end minute.
	TimeRangePattern string
	DayAliases       map[string][]string
	DayOffKeywords   []string
}

// Classifier matches lines against the configured patterns. Built once at
// startup and shared by every parse; it holds no mutable state.
type Classifier struct {
	timeRange *regexp.Regexp
	days      DaySet
	dayOff    map[string]struct{}
}

// dayHeaderRe matches a line that is a single bare word, the shape of a
// day header. Whether the word actually names a day is decided against
// the DaySet; a word ending in "day" (e.g. "Funday") still classifies as
// a header so the resolver can reject it with a useful diagnostic.
var dayHeaderRe = regexp.MustCompile(`^([A-Za-z]+)[.:]?$`)

// NewClassifier compiles the configured patterns. An invalid pattern or
// day set fails construction; classification itself never fails.
func NewClassifier(opts Options) (*Classifier, error) {
	re, err := regexp.Compile("(?i)" + opts.TimeRangePattern)
	if err != nil {
		return nil, fmt.Errorf("time_range_pattern: %w", err)
	}
	if re.NumSubexp() < 4 {
		return nil, fmt.Errorf("time_range_pattern: need 4 capture groups, got %d", re.NumSubexp())
	}

	days, err := NewDaySet(opts.DayAliases)
	if err != nil {
		return nil, err
	}

	dayOff := make(map[string]struct{}, len(opts.DayOffKeywords))
	for _, kw := range opts.DayOffKeywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" {
			continue
		}
		dayOff[kw] = struct{}{}
	}

	return &Classifier{
		timeRange: re,
		days:      days,
		dayOff:    dayOff,
	}, nil
}

// Days exposes the compiled day set for resolution.
func (c *Classifier) Days() DaySet { return c.days }

// Classify matches one line. Precedence is fixed: day-off keywords, then
// the day-name shape, then the time-range pattern. A line that looks like
// a time range but carries an out-of-range hour or minute is unmatched,
// not an error.
func (c *Classifier) Classify(raw string) Line {
	text := strings.TrimSpace(raw)
	out := Line{Kind: LineUnmatched, Text: text}

	if _, ok := c.dayOff[strings.ToLower(text)]; ok {
		out.Kind = LineDayOff
		return out
	}

	if m := dayHeaderRe.FindStringSubmatch(text); m != nil {
		word := m[1]
		_, known := c.days[strings.ToLower(word)]
		if known || strings.HasSuffix(strings.ToLower(word), "day") {
			out.Kind = LineDayHeader
			out.DayName = word
			return out
		}
	}

	if m := c.timeRange.FindStringSubmatch(text); m != nil {
		start, okStart := parseClock(m[1], m[2])
		end, okEnd := parseClock(m[3], m[4])
		if okStart && okEnd {
			out.Kind = LineTimeRange
			out.Start = start
			out.End = end
			return out
		}
		// Shape matched but values out of range: fall through to unmatched.
	}

	return out
}

func parseClock(hourStr, minStr string) (model.ClockTime, bool) {
	hour, err := strconv.Atoi(hourStr)
	if err != nil {
		return model.ClockTime{}, false
	}
	minute, err := strconv.Atoi(minStr)
	if err != nil {
		return model.ClockTime{}, false
	}
	c := model.ClockTime{Hour: hour, Minute: minute}
	return c, c.Valid()
}
