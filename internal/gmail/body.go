package gmail

import (
	"encoding/base64"
	"errors"
	"strings"

	"golang.org/x/net/html"
	gmailapi "google.golang.org/api/gmail/v1"
)

// extractText pulls readable text out of a message payload, preferring
// text/plain over text/html. HTML is converted to plain text with block
// elements mapped to newlines so line-oriented parsing still works.
func extractText(p *gmailapi.MessagePart) (string, error) {
	if plain := findPart(p, "text/plain"); plain != "" {
		return plain, nil
	}
	if raw := findPart(p, "text/html"); raw != "" {
		return htmlToText(raw)
	}
	return "", errors.New("no text/plain or text/html part")
}

// findPart walks the MIME tree depth-first and returns the decoded body
// of the first part with the given MIME type.
func findPart(p *gmailapi.MessagePart, mimeType string) string {
	if p == nil {
		return ""
	}
	if strings.EqualFold(p.MimeType, mimeType) && p.Body != nil && p.Body.Data != "" {
		if data, err := decodeBody(p.Body.Data); err == nil {
			return string(data)
		}
	}
	for _, child := range p.Parts {
		if body := findPart(child, mimeType); body != "" {
			return body
		}
	}
	return ""
}

// decodeBody decodes Gmail's URL-safe base64, with and without padding.
func decodeBody(data string) ([]byte, error) {
	if b, err := base64.URLEncoding.DecodeString(data); err == nil {
		return b, nil
	}
	return base64.RawURLEncoding.DecodeString(data)
}

// blockTags are elements that imply a line break around their content.
var blockTags = map[string]bool{
	"br": true, "p": true, "div": true, "tr": true, "li": true,
	"h1": true, "h2": true, "h3": true, "h4": true,
}

// htmlToText strips tags, concatenating text nodes and mapping block
// elements to newlines. script/style content is dropped.
func htmlToText(raw string) (string, error) {
	doc, err := html.Parse(strings.NewReader(raw))
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			sb.WriteString(n.Data)
		case html.ElementNode:
			if n.Data == "script" || n.Data == "style" {
				return
			}
			if blockTags[n.Data] {
				sb.WriteString("\n")
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode && blockTags[n.Data] && n.Data != "br" {
			sb.WriteString("\n")
		}
	}
	walk(doc)

	return sb.String(), nil
}
