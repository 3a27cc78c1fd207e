package cli

import (
	"context"

	"github.com/spf13/cobra"

	"shiftcal/internal/gmail"
	"shiftcal/internal/ics"
	appLog "shiftcal/internal/log"
	"shiftcal/internal/watch"
)

func newWatchCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Periodically regenerate the calendar from the newest matching email",
		Long: `watch polls Gmail on the configured cron schedule ("refresh" in the
config file), takes the newest message matching the query without
prompting, and rewrites the .ics file whenever a new message appears.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd.Context(), flags)
		},
	}
}

func runWatch(ctx context.Context, flags *rootFlags) error {
	env, err := setup(flags)
	if err != nil {
		return err
	}

	client, err := gmail.NewClient(ctx, env.conf.CredentialsFile, env.conf.TokenFile)
	if err != nil {
		return err
	}

	// Message id of the last run, so an unchanged inbox is a no-op.
	var lastID string

	job := func(ctx context.Context) {
		summaries, err := client.Search(ctx, env.conf.Query, 1)
		if err != nil {
			appLog.Error("watch: search failed", err)
			return
		}
		if len(summaries) == 0 {
			appLog.Debug("watch: no matching emails")
			return
		}

		newest := summaries[0]
		if newest.ID == lastID {
			appLog.Debug("watch: newest email already processed", "id", newest.ID)
			return
		}

		body, err := client.FetchBody(ctx, newest.ID)
		if err != nil {
			appLog.Error("watch: body fetch failed", err, "id", newest.ID)
			return
		}

		shifts, unmatched, err := extractShifts(body, flags.format, env)
		if err != nil {
			appLog.Error("watch: extraction failed", err, "id", newest.ID)
			return
		}
		reportUnmatched(unmatched)
		if len(shifts) == 0 {
			appLog.Warn("watch: no shifts in newest email", "id", newest.ID, "subject", newest.Subject)
			return
		}

		cal := ics.Build(shifts, ics.Options{
			Location: env.loc,
			Summary:  env.conf.Summary,
			Anchor:   env.anchor,
		})
		path, err := ics.WriteFile(env.conf.OutputDir, env.anchor, cal)
		if err != nil {
			appLog.Error("watch: calendar write failed", err)
			return
		}

		lastID = newest.ID
		appLog.Info("watch: calendar regenerated", "path", path, "shifts", len(shifts), "id", newest.ID)
	}

	return watch.Run(ctx, env.conf.RefreshCron, job)
}
