package ics

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shiftcal/internal/model"
)

var buildAnchor = time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)

func sampleShifts() []model.Shift {
	return []model.Shift{
		{
			Date:  time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC),
			Start: model.ClockTime{Hour: 9},
			End:   model.ClockTime{Hour: 17},
		},
		{
			Date:  time.Date(2024, 6, 5, 0, 0, 0, 0, time.UTC),
			Start: model.ClockTime{Hour: 13},
			End:   model.ClockTime{Hour: 21},
			Title: "Bartender @ Carrington",
		},
	}
}

func TestBuild_OneEventPerShift(t *testing.T) {
	cal := Build(sampleShifts(), Options{Location: time.UTC, Summary: "Shift", Anchor: buildAnchor})
	ser := cal.Serialize()

	assert.Equal(t, 2, strings.Count(ser, "BEGIN:VEVENT"))
	assert.Contains(t, ser, "METHOD:PUBLISH")
	assert.Contains(t, ser, "X-WR-CALNAME:Shifts week of 2024-06-03")
	assert.Contains(t, ser, "DTSTART:20240603T090000Z")
	assert.Contains(t, ser, "DTEND:20240603T170000Z")
}

func TestBuild_SummaryFallback(t *testing.T) {
	cal := Build(sampleShifts(), Options{Location: time.UTC, Summary: "Shift", Anchor: buildAnchor})
	ser := cal.Serialize()

	// Untitled shift uses the configured summary, titled shift keeps its own.
	assert.Contains(t, ser, "SUMMARY:Shift")
	assert.Contains(t, ser, "SUMMARY:Bartender @ Carrington")
}

func TestBuild_OvernightShiftRollsEndDate(t *testing.T) {
	shifts := []model.Shift{{
		Date:  time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC),
		Start: model.ClockTime{Hour: 22},
		End:   model.ClockTime{Hour: 6},
	}}

	ser := Build(shifts, Options{Location: time.UTC, Anchor: buildAnchor}).Serialize()

	assert.Contains(t, ser, "DTSTART:20240603T220000Z")
	assert.Contains(t, ser, "DTEND:20240604T060000Z")
}

func TestBuild_TimezoneOffsetApplied(t *testing.T) {
	sydney := time.FixedZone("AEST", 10*3600)
	shifts := []model.Shift{{
		Date:  time.Date(2024, 6, 3, 0, 0, 0, 0, sydney),
		Start: model.ClockTime{Hour: 9},
		End:   model.ClockTime{Hour: 17},
	}}

	ser := Build(shifts, Options{Location: sydney, Anchor: buildAnchor}).Serialize()

	// 09:00 at UTC+10 is 23:00 the previous day in UTC.
	assert.Contains(t, ser, "DTSTART:20240602T230000Z")
	assert.Contains(t, ser, "DTEND:20240603T070000Z")
}

func TestBuild_StableUIDs(t *testing.T) {
	a := uidLines(t, Build(sampleShifts(), Options{Location: time.UTC, Anchor: buildAnchor}).Serialize())
	b := uidLines(t, Build(sampleShifts(), Options{Location: time.UTC, Anchor: buildAnchor}).Serialize())

	require.Len(t, a, 2)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a[0], a[1])
	for _, uid := range a {
		assert.True(t, strings.HasSuffix(uid, "@shiftcal"), "uid %q", uid)
	}
}

func uidLines(t *testing.T, ser string) []string {
	t.Helper()
	var uids []string
	for _, line := range strings.Split(ser, "\r\n") {
		if strings.HasPrefix(line, "UID:") {
			uids = append(uids, strings.TrimPrefix(line, "UID:"))
		}
	}
	return uids
}

func TestBuild_EmptyShiftList(t *testing.T) {
	ser := Build(nil, Options{Location: time.UTC, Anchor: buildAnchor}).Serialize()

	assert.Contains(t, ser, "BEGIN:VCALENDAR")
	assert.Zero(t, strings.Count(ser, "BEGIN:VEVENT"))
}
