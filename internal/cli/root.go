// Package cli wires the shiftcal commands: the one-shot generate run and
// the cron-driven watch mode.
package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"shiftcal/internal/config"
	"shiftcal/internal/ics"
	appLog "shiftcal/internal/log"
	"shiftcal/internal/model"
	"shiftcal/internal/shift"
)

type rootFlags struct {
	configPath string
	file       string
	query      string
	week       string
	output     string
	format     string
	verbose    bool
}

// Execute runs the command tree under the given context.
func Execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:   "shiftcal",
		Short: "Turn a shift schedule email into an importable .ics calendar",
		Long: `shiftcal reads a shift schedule from an email (or a local text file),
extracts the shifts and writes an iCalendar file you can import into
Google Calendar or any other calendar application.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd.Context(), flags)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", config.DefaultPath(), "path to config file")
	pf.StringVarP(&flags.query, "query", "q", "", "Gmail search query (overrides config)")
	pf.StringVarP(&flags.week, "week", "w", "", "Monday of the shift week, YYYY-MM-DD (default: upcoming Monday)")
	pf.StringVarP(&flags.output, "output", "o", "", "output directory for the .ics file (overrides config)")
	pf.StringVar(&flags.format, "format", "auto", "email format: auto, rota or blocks")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "enable debug logging")

	cmd.Flags().StringVarP(&flags.file, "file", "f", "", "read the email body from a local text file (skips Gmail)")

	cmd.AddCommand(newWatchCmd(flags))
	return cmd
}

func runGenerate(ctx context.Context, flags *rootFlags) error {
	env, err := setup(flags)
	if err != nil {
		return err
	}

	var body string
	if flags.file != "" {
		data, err := os.ReadFile(flags.file)
		if err != nil {
			return fmt.Errorf("reading %s: %w", flags.file, err)
		}
		body = string(data)
	} else {
		body, err = fetchInteractive(ctx, env)
		if err != nil {
			return err
		}
	}

	shifts, unmatched, err := extractShifts(body, flags.format, env)
	if err != nil {
		return err
	}
	reportUnmatched(unmatched)

	if len(shifts) == 0 {
		return fmt.Errorf("no shifts found; check that the email matches the configured patterns (edit %s or pass --query)", flags.configPath)
	}

	fmt.Printf("Found %d shift(s):\n", len(shifts))
	for _, s := range shifts {
		fmt.Printf("  %s  %s to %s\n", s.Date.Format("Monday, 02 Jan 2006"), s.Start, s.End)
	}

	cal := ics.Build(shifts, ics.Options{
		Location: env.loc,
		Summary:  env.conf.Summary,
		Anchor:   env.anchor,
	})
	path, err := ics.WriteFile(env.conf.OutputDir, env.anchor, cal)
	if err != nil {
		return err
	}

	fmt.Printf("Calendar written: %s\n", path)
	return nil
}

// env carries everything a pipeline run needs, resolved once from flags
// and config.
type env struct {
	conf      *config.Config
	loc       *time.Location
	anchor    time.Time
	extractor *shift.Extractor
}

func setup(flags *rootFlags) (*env, error) {
	if flags.verbose {
		appLog.SetLevel(appLog.LevelDebug)
	}

	conf, err := config.Load(flags.configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config %s: %w", flags.configPath, err)
	}
	if flags.query != "" {
		conf.Query = flags.query
	}
	if flags.output != "" {
		conf.OutputDir = flags.output
	}

	loc, err := time.LoadLocation(conf.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", conf.Timezone, err)
	}

	anchor, err := resolveAnchor(flags.week, loc)
	if err != nil {
		return nil, err
	}

	cls, err := shift.NewClassifier(shift.Options{
		TimeRangePattern: conf.TimeRangePattern,
		DayAliases:       conf.DayAliases,
		DayOffKeywords:   conf.DayOffKeywords,
	})
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", flags.configPath, err)
	}

	return &env{
		conf:      conf,
		loc:       loc,
		anchor:    anchor,
		extractor: shift.NewExtractor(cls),
	}, nil
}

// resolveAnchor returns the week anchor: the --week date when given,
// otherwise the upcoming Monday (today, if today is Monday).
func resolveAnchor(week string, loc *time.Location) (time.Time, error) {
	if week == "" {
		now := time.Now().In(loc)
		day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
		offset := (int(time.Monday) - int(day.Weekday()) + 7) % 7
		return day.AddDate(0, 0, offset), nil
	}

	anchor, err := time.ParseInLocation("2006-01-02", week, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("--week must be YYYY-MM-DD (e.g. 2025-03-03): %w", err)
	}
	if anchor.Weekday() != time.Monday {
		appLog.Warn("week anchor is not a Monday", "week", week, "weekday", anchor.Weekday().String())
	}
	return anchor, nil
}

// extractShifts dispatches on the email format. "auto" sniffs for the
// numbered block header.
func extractShifts(body, format string, env *env) ([]model.Shift, []shift.UnmatchedLine, error) {
	f := shift.DetectFormat(body)
	switch format {
	case "auto", "":
	case "rota":
		f = shift.FormatRota
	case "blocks":
		f = shift.FormatBlocks
	default:
		return nil, nil, fmt.Errorf("unknown --format %q (want auto, rota or blocks)", format)
	}
	appLog.Debug("email format", "format", f.String())

	if f == shift.FormatBlocks {
		return shift.ExtractBlocks(body, env.loc), nil, nil
	}
	res := env.extractor.Extract(body, env.anchor)
	return res.Shifts, res.Unmatched, nil
}

// reportUnmatched surfaces every line no pattern recognized; these are
// the raw material for tuning the config patterns.
func reportUnmatched(unmatched []shift.UnmatchedLine) {
	for _, u := range unmatched {
		appLog.Warn("unmatched line", "line", u.Line, "text", u.Text)
	}
	if len(unmatched) > 0 {
		appLog.Warn("some lines were not recognized", "count", len(unmatched))
	}
}
