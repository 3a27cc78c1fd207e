// Package watch runs the fetch-extract-write pipeline on a cron schedule.
package watch

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"

	appLog "shiftcal/internal/log"
)

// Job is one pipeline run. Errors are the job's own business; a failed
// run must not stop the schedule.
type Job func(ctx context.Context)

// Run executes job once immediately, then on every tick of the cron
// spec, blocking until ctx is canceled. In-flight runs are not
// interrupted mid-tick; cancellation is observed through ctx.
func Run(ctx context.Context, spec string, job Job) error {
	c := cron.New()

	if _, err := c.AddFunc(spec, func() {
		if ctx.Err() != nil {
			return
		}
		job(ctx)
	}); err != nil {
		return fmt.Errorf("invalid refresh schedule %q: %w", spec, err)
	}

	appLog.Info("watch started", "schedule", spec)

	job(ctx)
	c.Start()

	<-ctx.Done()
	stopCtx := c.Stop()
	<-stopCtx.Done()

	appLog.Info("watch stopped")
	return nil
}
