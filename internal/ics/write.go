package ics

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	ical "github.com/arran4/golang-ical"

	appLog "shiftcal/internal/log"
)

// WriteFile serializes the calendar to dir/shifts-<anchor>.ics and
// returns the written path. The write is atomic: temp file in the same
// directory, then rename.
func WriteFile(dir string, anchor time.Time, cal *ical.Calendar) (string, error) {
	if cal == nil {
		return "", errors.New("calendar is nil")
	}
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	name := fmt.Sprintf("shifts-%s.ics", anchor.Format("2006-01-02"))
	path := filepath.Join(dir, name)

	tmp, err := os.CreateTemp(dir, ".shiftcal-*.tmp")
	if err != nil {
		return "", err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.WriteString(cal.Serialize()); err != nil {
		tmp.Close()
		return "", err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return "", err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return "", err
	}

	appLog.Info("calendar written", "path", path)
	return path, nil
}
