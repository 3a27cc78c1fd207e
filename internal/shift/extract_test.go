package shift

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shiftcal/internal/model"
)

var testAnchor = time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC) // Monday

func testExtractor(t *testing.T) *Extractor {
	t.Helper()
	return NewExtractor(testClassifier(t))
}

func TestExtract_WeekWithDayOff(t *testing.T) {
	body := "Monday\n09:00 - 17:00\nTuesday\noff\nWednesday\n13:00 - 21:00"

	res := testExtractor(t).Extract(body, testAnchor)

	require.Len(t, res.Shifts, 2)
	assert.Equal(t, model.Shift{
		Date:  time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC),
		Start: model.ClockTime{Hour: 9},
		End:   model.ClockTime{Hour: 17},
	}, res.Shifts[0])
	assert.Equal(t, model.Shift{
		Date:  time.Date(2024, 6, 5, 0, 0, 0, 0, time.UTC),
		Start: model.ClockTime{Hour: 13},
		End:   model.ClockTime{Hour: 21},
	}, res.Shifts[1])
	assert.Empty(t, res.Unmatched)
}

func TestExtract_OrphanTimeRange(t *testing.T) {
	res := testExtractor(t).Extract("13:00 - 21:00", testAnchor)

	assert.Empty(t, res.Shifts)
	require.Len(t, res.Unmatched, 1)
	assert.Equal(t, 1, res.Unmatched[0].Line)
	assert.Equal(t, "13:00 - 21:00", res.Unmatched[0].Text)
}

func TestExtract_UnknownDayName(t *testing.T) {
	res := testExtractor(t).Extract("Funday\n09:00-17:00", testAnchor)

	// The header does not resolve, so the time range below it is an
	// orphan; both lines surface as unmatched.
	assert.Empty(t, res.Shifts)
	assert.Len(t, res.Unmatched, 2)
}

func TestExtract_DayOffBlocksStaleContext(t *testing.T) {
	body := "Monday\noff\n09:00 - 17:00"

	res := testExtractor(t).Extract(body, testAnchor)

	// The rest day cleared the cursor; the stray time range must not
	// attach to Monday.
	assert.Empty(t, res.Shifts)
	require.Len(t, res.Unmatched, 1)
	assert.Equal(t, "09:00 - 17:00", res.Unmatched[0].Text)
}

func TestExtract_MultipleRangesPerDay(t *testing.T) {
	body := "Saturday\n08:00 - 12:00\n17:00 - 22:00"

	res := testExtractor(t).Extract(body, testAnchor)

	require.Len(t, res.Shifts, 2)
	saturday := time.Date(2024, 6, 8, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, saturday, res.Shifts[0].Date)
	assert.Equal(t, saturday, res.Shifts[1].Date)
}

func TestExtract_Idempotent(t *testing.T) {
	body := "Monday\n09:00 - 17:00\nnoise line\nFriday\n10:00 - 18:30"
	ex := testExtractor(t)

	first := ex.Extract(body, testAnchor)
	second := ex.Extract(body, testAnchor)

	assert.Equal(t, first, second)
}

func TestExtract_StatsCoverEveryNonEmptyLine(t *testing.T) {
	body := "Monday\n\n09:00 - 17:00\noff\n  \nsome noise\nFunday\n25:00 - 09:00"

	res := testExtractor(t).Extract(body, testAnchor)

	nonEmpty := 0
	for _, line := range strings.Split(body, "\n") {
		if strings.TrimSpace(line) != "" {
			nonEmpty++
		}
	}

	total := res.Stats.DayOff + res.Stats.DayHeader + res.Stats.TimeRange + res.Stats.Unmatched
	assert.Equal(t, nonEmpty, total)
}

func TestExtract_PreservesInputOrder(t *testing.T) {
	body := "Wednesday\n13:00 - 21:00\nMonday\n09:00 - 17:00"

	res := testExtractor(t).Extract(body, testAnchor)

	// The extractor neither sorts nor deduplicates.
	require.Len(t, res.Shifts, 2)
	assert.Equal(t, time.Date(2024, 6, 5, 0, 0, 0, 0, time.UTC), res.Shifts[0].Date)
	assert.Equal(t, time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC), res.Shifts[1].Date)
}

func TestExtract_CRLFBody(t *testing.T) {
	body := "Monday\r\n09:00 - 17:00\r\n"

	res := testExtractor(t).Extract(body, testAnchor)

	require.Len(t, res.Shifts, 1)
	assert.Empty(t, res.Unmatched)
}
