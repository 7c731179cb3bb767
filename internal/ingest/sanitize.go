package ingest

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/publicsuffix"
)

var multiSpaceRE = regexp.MustCompile(`\s+`)

// SanitizeDescription reduces a possibly-HTML description to plain text.
// Markup and script/style bodies are dropped, entities decoded, and
// whitespace normalized line by line. Plain text passes through with the
// same whitespace normalization.
func SanitizeDescription(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	text := raw
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err == nil {
		doc.Find("script, style").Remove()
		text = doc.Text()
	}
	return normalizeText(text)
}

// normalizeText collapses runs of spaces within lines and drops blank
// lines, keeping paragraph breaks as single newlines.
func normalizeText(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		clean := strings.TrimSpace(multiSpaceRE.ReplaceAllString(line, " "))
		if clean == "" {
			continue
		}
		out = append(out, clean)
	}
	return strings.Join(out, "\n")
}

// SourceHost derives the registrable domain of an event website, the
// value shown as the listing's source attribution. Invalid or
// non-HTTP URLs come back empty.
func SourceHost(rawURL string) string {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return ""
	}
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return ""
	}
	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return ""
	}
	host := strings.ToLower(u.Hostname())
	eTLD1, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host
	}
	return eTLD1
}
