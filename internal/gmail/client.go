// Package gmail supplies the plain-text body of a shift email, either
// from the Gmail API (OAuth2 installed-app flow with a cached token) or
// trivially from a local file via the caller.
package gmail

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gmailapi "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	appLog "shiftcal/internal/log"
)

// Client wraps an authenticated Gmail API service.
type Client struct {
	svc *gmailapi.Service
}

// NewClient authenticates against Gmail with read-only scope.
//
// credentialsFile is the OAuth2 client JSON from Google Cloud Console
// (Desktop App type). tokenFile caches the user token between runs; when
// missing or unusable, an interactive console authorization flow runs
// and the resulting token is saved with 0600 perms.
func NewClient(ctx context.Context, credentialsFile, tokenFile string) (*Client, error) {
	data, err := os.ReadFile(credentialsFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf(
				"credentials file %q not found: download OAuth2 Desktop App credentials from Google Cloud Console and place them there", credentialsFile)
		}
		return nil, err
	}

	conf, err := google.ConfigFromJSON(data, gmailapi.GmailReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("parsing credentials: %w", err)
	}

	tok, err := tokenFromFile(tokenFile)
	if err != nil {
		appLog.Info("no cached token, starting authorization", "token_file", tokenFile)
		tok, err = authorize(ctx, conf)
		if err != nil {
			return nil, err
		}
		if err := saveToken(tokenFile, tok); err != nil {
			appLog.Error("token cache save failed", err, "token_file", tokenFile)
		}
	}

	// Persist refreshed tokens so the next run skips the refresh round-trip.
	src := persistingTokenSource{
		base: conf.TokenSource(ctx, tok),
		path: tokenFile,
		last: tok.AccessToken,
	}

	svc, err := gmailapi.NewService(ctx,
		option.WithTokenSource(oauth2.ReuseTokenSource(tok, &src)))
	if err != nil {
		return nil, fmt.Errorf("creating gmail service: %w", err)
	}

	return &Client{svc: svc}, nil
}

// authorize runs the console OAuth2 flow: print the URL, read the code.
func authorize(ctx context.Context, conf *oauth2.Config) (*oauth2.Token, error) {
	authURL := conf.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
	fmt.Printf("Open the following link in your browser, then paste the authorization code:\n%s\n\nCode: ", authURL)

	reader := bufio.NewReader(os.Stdin)
	code, err := reader.ReadString('\n')
	if err != nil {
		return nil, fmt.Errorf("reading authorization code: %w", err)
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, errors.New("empty authorization code")
	}

	tok, err := conf.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchanging authorization code: %w", err)
	}
	return tok, nil
}

func tokenFromFile(path string) (*oauth2.Token, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, err
	}
	return &tok, nil
}

func saveToken(path string, tok *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	data, err := json.Marshal(tok)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// persistingTokenSource writes tokens back to disk whenever the
// underlying source hands out a new access token.
type persistingTokenSource struct {
	base oauth2.TokenSource
	path string
	last string
}

func (p *persistingTokenSource) Token() (*oauth2.Token, error) {
	tok, err := p.base.Token()
	if err != nil {
		return nil, err
	}
	if tok.AccessToken != p.last {
		p.last = tok.AccessToken
		if err := saveToken(p.path, tok); err != nil {
			appLog.Error("refreshed token save failed", err, "token_file", p.path)
		}
	}
	return tok, nil
}
