package gmail

import (
	"context"
	"fmt"

	appLog "shiftcal/internal/log"
)

// Summary describes one matching message, enough for a human to pick
// the right one.
type Summary struct {
	ID      string
	Subject string
	From    string
	Date    string
}

// Search returns up to max messages matching the Gmail query, newest
// first (Gmail's own ordering).
func (c *Client) Search(ctx context.Context, query string, max int64) ([]Summary, error) {
	if max <= 0 {
		max = 5
	}

	appLog.Info("searching gmail", "query", query, "max_results", max)

	res, err := c.svc.Users.Messages.List("me").Q(query).MaxResults(max).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("listing messages: %w", err)
	}

	summaries := make([]Summary, 0, len(res.Messages))
	for _, msg := range res.Messages {
		meta, err := c.svc.Users.Messages.Get("me", msg.Id).
			Format("metadata").
			MetadataHeaders("Subject", "From", "Date").
			Context(ctx).Do()
		if err != nil {
			appLog.Error("message metadata fetch failed", err, "id", msg.Id)
			continue
		}

		s := Summary{ID: msg.Id, Subject: "(no subject)"}
		if meta.Payload != nil {
			for _, h := range meta.Payload.Headers {
				switch h.Name {
				case "Subject":
					if h.Value != "" {
						s.Subject = h.Value
					}
				case "From":
					s.From = h.Value
				case "Date":
					s.Date = h.Value
				}
			}
		}
		summaries = append(summaries, s)
	}

	appLog.Info("gmail search completed", "matches", len(summaries))
	return summaries, nil
}

// FetchBody returns the plain-text body of a message, falling back to a
// text conversion of the HTML part when no text/plain part exists.
func (c *Client) FetchBody(ctx context.Context, id string) (string, error) {
	msg, err := c.svc.Users.Messages.Get("me", id).Format("full").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("fetching message %s: %w", id, err)
	}
	if msg.Payload == nil {
		return "", fmt.Errorf("message %s has no payload", id)
	}

	body, err := extractText(msg.Payload)
	if err != nil {
		return "", fmt.Errorf("extracting body of %s: %w", id, err)
	}
	return body, nil
}
