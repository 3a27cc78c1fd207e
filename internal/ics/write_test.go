package ics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	cal := Build(sampleShifts(), Options{Location: time.UTC, Summary: "Shift", Anchor: buildAnchor})

	path, err := WriteFile(dir, buildAnchor, cal)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "shifts-2024-06-03.ics"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "BEGIN:VCALENDAR")
	assert.Contains(t, string(data), "END:VCALENDAR")
}

func TestWriteFile_Overwrites(t *testing.T) {
	dir := t.TempDir()
	cal := Build(sampleShifts(), Options{Location: time.UTC, Anchor: buildAnchor})

	_, err := WriteFile(dir, buildAnchor, cal)
	require.NoError(t, err)
	path, err := WriteFile(dir, buildAnchor, cal)
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "rename must replace, not accumulate")
	assert.Equal(t, filepath.Base(path), entries[0].Name())
}

func TestWriteFile_NilCalendar(t *testing.T) {
	_, err := WriteFile(t.TempDir(), buildAnchor, nil)
	assert.Error(t, err)
}
