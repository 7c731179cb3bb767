package seo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	maxSlugLen    = 80
	maxSlugProbes = 1000
)

// ErrSlugProbesExhausted reports that uniqueness probing gave up after
// maxSlugProbes collisions and the returned slug carries the id-based
// fallback suffix. Callers should log it, not fail on it.
var ErrSlugProbesExhausted = errors.New("slug uniqueness probes exhausted")

// SlugExistsFunc answers whether candidate is already taken by a record
// other than excludeID. excludeID 0 means no record is excluded.
type SlugExistsFunc func(ctx context.Context, candidate string, excludeID int64) (bool, error)

var (
	accentFold  = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	nonSlugRE   = regexp.MustCompile(`[^\w\s-]`)
	separatorRE = regexp.MustCompile(`[\s_-]+`)
)

// Slugify builds the base slug candidate from a title and optional city.
// Accented characters fold to their ASCII base form, anything else
// non-ASCII is dropped, and separator runs collapse to single hyphens.
// The result is capped at maxSlugLen and is never empty.
func Slugify(title, city string) string {
	base := strings.TrimSpace(strings.TrimSpace(title) + " " + strings.TrimSpace(city))
	if base == "" {
		return "event"
	}
	if folded, _, err := transform.String(accentFold, base); err == nil {
		base = folded
	}
	base = strings.ToLower(base)
	base = nonSlugRE.ReplaceAllString(base, "")
	base = separatorRE.ReplaceAllString(base, "-")
	base = strings.Trim(base, "-")
	if base == "" {
		return "event"
	}
	return capSlug(base)
}

func capSlug(s string) string {
	if len(s) <= maxSlugLen {
		return s
	}
	cut := s[:maxSlugLen]
	// Back up to a hyphen when one sits in the upper half of the cap, so
	// the slug ends on a whole word instead of an arbitrary mid-word cut.
	if i := strings.LastIndex(cut, "-"); i >= maxSlugLen/2 {
		cut = cut[:i]
	}
	return strings.Trim(cut, "-")
}

// GenerateUniqueSlug resolves the base candidate for title+city against the
// exists oracle, appending -1, -2, ... on collision. After maxSlugProbes
// failed attempts it falls back to "<base>-<excludeID|new>" and reports
// ErrSlugProbesExhausted. An oracle failure returns the base candidate
// together with the wrapped error so callers can decide how to degrade.
func GenerateUniqueSlug(ctx context.Context, title, city string, exists SlugExistsFunc, excludeID int64) (string, error) {
	base := Slugify(title, city)
	if exists == nil {
		return base, nil
	}
	candidate := base
	for attempt := 1; ; attempt++ {
		taken, err := exists(ctx, candidate, excludeID)
		if err != nil {
			return base, fmt.Errorf("slug uniqueness check: %w", err)
		}
		if !taken {
			return candidate, nil
		}
		if attempt >= maxSlugProbes {
			suffix := "new"
			if excludeID > 0 {
				suffix = strconv.FormatInt(excludeID, 10)
			}
			return base + "-" + suffix, ErrSlugProbesExhausted
		}
		candidate = fmt.Sprintf("%s-%d", base, attempt)
	}
}
