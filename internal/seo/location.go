package seo

import (
	"regexp"
	"strings"
)

// Location is the parsed city/state pair for a US address. Country is
// always "USA"; empty City and State mean nothing could be extracted.
type Location struct {
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Country string `json:"country"`
}

var stateAbbrevs = []string{
	"AL", "AK", "AZ", "AR", "CA", "CO", "CT", "DE", "FL", "GA",
	"HI", "ID", "IL", "IN", "IA", "KS", "KY", "LA", "ME", "MD",
	"MA", "MI", "MN", "MS", "MO", "MT", "NE", "NV", "NH", "NJ",
	"NM", "NY", "NC", "ND", "OH", "OK", "OR", "PA", "RI", "SC",
	"SD", "TN", "TX", "UT", "VT", "VA", "WA", "WV", "WI", "WY",
}

var (
	cityStateUSARE = regexp.MustCompile(`(?i)([^,]+),\s*([a-z]{2}),\s*usa\s*$`)
	cityStateEndRE = regexp.MustCompile(`(?i)([^,]+),\s*([a-z]{2})\s*$`)
	// The bare scan stays case-sensitive: lowercase "in", "or", "me" are
	// ordinary words far more often than state codes.
	stateScanRE   = regexp.MustCompile(`\b(` + strings.Join(stateAbbrevs, "|") + `)\b`)
	houseNumberRE = regexp.MustCompile(`^\d+\s+`)
)

// ExtractLocation parses a free-form US address into city and state.
// Strategies run most explicit first: a trailing ", ST, USA", then a
// trailing ", ST", then a whole-word scan for any state abbreviation with
// the preceding comma segment as the city. No match leaves both empty.
func ExtractLocation(address string) Location {
	loc := Location{Country: "USA"}
	address = strings.TrimSpace(address)
	if address == "" {
		return loc
	}
	if m := cityStateUSARE.FindStringSubmatch(address); m != nil {
		loc.City = strings.TrimSpace(m[1])
		loc.State = strings.ToUpper(m[2])
		return loc
	}
	if m := cityStateEndRE.FindStringSubmatch(address); m != nil {
		loc.City = strings.TrimSpace(m[1])
		loc.State = strings.ToUpper(m[2])
		return loc
	}
	if m := stateScanRE.FindStringIndex(address); m != nil {
		loc.State = address[m[0]:m[1]]
		prefix := strings.TrimRight(address[:m[0]], ", \t")
		if prefix != "" {
			segments := strings.Split(prefix, ",")
			city := strings.TrimSpace(segments[len(segments)-1])
			loc.City = houseNumberRE.ReplaceAllString(city, "")
		}
		return loc
	}
	return loc
}
