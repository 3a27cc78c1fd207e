package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/huh"

	"shiftcal/internal/gmail"
	appLog "shiftcal/internal/log"
)

// fetchInteractive searches Gmail with the configured query and returns
// the body of the selected message. A single match is used directly;
// multiple matches go through a select prompt.
func fetchInteractive(ctx context.Context, env *env) (string, error) {
	client, err := gmail.NewClient(ctx, env.conf.CredentialsFile, env.conf.TokenFile)
	if err != nil {
		return "", err
	}

	summaries, err := client.Search(ctx, env.conf.Query, env.conf.MaxResults)
	if err != nil {
		return "", err
	}
	if len(summaries) == 0 {
		return "", fmt.Errorf("no emails matched %q; adjust the query with --query", env.conf.Query)
	}

	selected, err := pickEmail(summaries)
	if err != nil {
		return "", err
	}

	appLog.Info("fetching email", "id", selected.ID, "subject", selected.Subject)
	return client.FetchBody(ctx, selected.ID)
}

// pickEmail asks the user which of several matches to use.
func pickEmail(summaries []gmail.Summary) (gmail.Summary, error) {
	if len(summaries) == 1 {
		appLog.Info("using the only match", "subject", summaries[0].Subject)
		return summaries[0], nil
	}

	options := make([]huh.Option[int], 0, len(summaries))
	for i, s := range summaries {
		label := fmt.Sprintf("%s  %s  (%s)", s.Date, s.Subject, s.From)
		options = append(options, huh.NewOption(label, i))
	}

	var idx int
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("Which email?").
				Options(options...).
				Value(&idx),
		),
	)
	if err := form.Run(); err != nil {
		return gmail.Summary{}, fmt.Errorf("email selection: %w", err)
	}

	return summaries[idx], nil
}
