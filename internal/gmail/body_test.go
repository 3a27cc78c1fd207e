package gmail

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gmailapi "google.golang.org/api/gmail/v1"
)

func b64(s string) string {
	return base64.URLEncoding.EncodeToString([]byte(s))
}

func TestExtractText_PrefersPlainOverHTML(t *testing.T) {
	payload := &gmailapi.MessagePart{
		MimeType: "multipart/alternative",
		Parts: []*gmailapi.MessagePart{
			{
				MimeType: "text/html",
				Body:     &gmailapi.MessagePartBody{Data: b64("<p>html version</p>")},
			},
			{
				MimeType: "text/plain",
				Body:     &gmailapi.MessagePartBody{Data: b64("plain version")},
			},
		},
	}

	got, err := extractText(payload)
	require.NoError(t, err)
	assert.Equal(t, "plain version", got)
}

func TestExtractText_HTMLFallback(t *testing.T) {
	payload := &gmailapi.MessagePart{
		MimeType: "text/html",
		Body:     &gmailapi.MessagePartBody{Data: b64("<div>Monday</div><div>09:00 - 17:00</div>")},
	}

	got, err := extractText(payload)
	require.NoError(t, err)

	lines := nonEmptyLines(got)
	require.Len(t, lines, 2)
	assert.Equal(t, "Monday", lines[0])
	assert.Equal(t, "09:00 - 17:00", lines[1])
}

func TestExtractText_NestedParts(t *testing.T) {
	payload := &gmailapi.MessagePart{
		MimeType: "multipart/mixed",
		Parts: []*gmailapi.MessagePart{
			{
				MimeType: "multipart/alternative",
				Parts: []*gmailapi.MessagePart{
					{
						MimeType: "text/plain",
						Body:     &gmailapi.MessagePartBody{Data: b64("nested body")},
					},
				},
			},
		},
	}

	got, err := extractText(payload)
	require.NoError(t, err)
	assert.Equal(t, "nested body", got)
}

func TestExtractText_NoTextParts(t *testing.T) {
	payload := &gmailapi.MessagePart{
		MimeType: "image/png",
		Body:     &gmailapi.MessagePartBody{Data: b64("binary")},
	}

	_, err := extractText(payload)
	assert.Error(t, err)
}

func TestHTMLToText_BlockElements(t *testing.T) {
	raw := `<html><body>
<h1>Roster</h1>
<table><tr><td>Monday</td></tr><tr><td>09:00 - 17:00</td></tr></table>
Tue<br>off
<style>.x{color:red}</style>
</body></html>`

	got, err := htmlToText(raw)
	require.NoError(t, err)

	lines := nonEmptyLines(got)
	assert.Contains(t, lines, "Roster")
	assert.Contains(t, lines, "Monday")
	assert.Contains(t, lines, "09:00 - 17:00")
	assert.Contains(t, lines, "Tue")
	assert.Contains(t, lines, "off")
	assert.NotContains(t, got, "color:red")
}

func TestDecodeBody_PaddedAndRaw(t *testing.T) {
	padded := base64.URLEncoding.EncodeToString([]byte("ab"))
	raw := base64.RawURLEncoding.EncodeToString([]byte("ab"))

	gotPadded, err := decodeBody(padded)
	require.NoError(t, err)
	gotRaw, err := decodeBody(raw)
	require.NoError(t, err)

	assert.Equal(t, []byte("ab"), gotPadded)
	assert.Equal(t, []byte("ab"), gotRaw)
}

func nonEmptyLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if t := strings.TrimSpace(line); t != "" {
			out = append(out, t)
		}
	}
	return out
}
