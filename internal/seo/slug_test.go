package seo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"testing"
)

var slugCharsetRE = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		title string
		city  string
		want  string
	}{
		{name: "title and city", title: "Michigan Antique Festival", city: "Midland", want: "michigan-antique-festival-midland"},
		{name: "title only", title: "Farmers Market", city: "", want: "farmers-market"},
		{name: "accents fold", title: "Café Niño", city: "", want: "cafe-nino"},
		{name: "punctuation stripped", title: "Rock & Roll: Live!", city: "", want: "rock-roll-live"},
		{name: "underscores collapse", title: "spring_craft__fair", city: "", want: "spring-craft-fair"},
		{name: "non ascii dropped", title: "夏祭り Summer Fest", city: "", want: "summer-fest"},
		{name: "both empty", title: "", city: "", want: "event"},
		{name: "only symbols", title: "!!!", city: "***", want: "event"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Slugify(tt.title, tt.city)
			if got != tt.want {
				t.Fatalf("Slugify(%q, %q) = %q, want %q", tt.title, tt.city, got, tt.want)
			}
		})
	}
}

func TestSlugifyCapsAtWordBoundary(t *testing.T) {
	title := strings.TrimSpace(strings.Repeat("word ", 20))
	got := Slugify(title, "")
	want := strings.TrimSuffix(strings.Repeat("word-", 16), "-")
	if got != want {
		t.Fatalf("capped slug = %q (len %d), want %q", got, len(got), want)
	}
	if len(got) > 80 {
		t.Fatalf("slug length %d exceeds cap", len(got))
	}
}

func TestSlugifyCharset(t *testing.T) {
	inputs := [][2]string{
		{"Michigan Antique Festival", "Midland"},
		{"  Weekend -- Yard___Sale  ", ""},
		{"Übergroße Gärten", "München"},
		{"100% FREE (really)", "St. Louis"},
		{strings.Repeat("x", 300), ""},
	}
	for _, in := range inputs {
		got := Slugify(in[0], in[1])
		if got != "event" && !slugCharsetRE.MatchString(got) {
			t.Fatalf("Slugify(%q, %q) = %q, not slug-safe", in[0], in[1], got)
		}
		if len(got) > 80 {
			t.Fatalf("Slugify(%q, %q) length %d exceeds cap", in[0], in[1], len(got))
		}
	}
}

func TestGenerateUniqueSlugNoCollision(t *testing.T) {
	exists := func(ctx context.Context, candidate string, excludeID int64) (bool, error) {
		return false, nil
	}
	got, err := GenerateUniqueSlug(context.Background(), "Michigan Antique Festival", "Midland", exists, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "michigan-antique-festival-midland" {
		t.Fatalf("slug = %q", got)
	}
}

func TestGenerateUniqueSlugResolvesCollision(t *testing.T) {
	taken := map[string]bool{"my-event": true}
	exists := func(ctx context.Context, candidate string, excludeID int64) (bool, error) {
		return taken[candidate], nil
	}
	got, err := GenerateUniqueSlug(context.Background(), "My Event", "", exists, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "my-event-1" {
		t.Fatalf("slug = %q, want my-event-1", got)
	}
}

func TestGenerateUniqueSlugDistinctUnderCollision(t *testing.T) {
	taken := map[string]bool{}
	exists := func(ctx context.Context, candidate string, excludeID int64) (bool, error) {
		return taken[candidate], nil
	}
	seen := map[string]bool{}
	for i := 0; i < 5; i++ {
		got, err := GenerateUniqueSlug(context.Background(), "Same Title", "", exists, 0)
		if err != nil {
			t.Fatalf("attempt %d: %v", i, err)
		}
		if seen[got] {
			t.Fatalf("attempt %d produced duplicate slug %q", i, got)
		}
		seen[got] = true
		taken[got] = true
	}
}

func TestGenerateUniqueSlugExhaustedFallsBack(t *testing.T) {
	exists := func(ctx context.Context, candidate string, excludeID int64) (bool, error) {
		return true, nil
	}

	got, err := GenerateUniqueSlug(context.Background(), "My Event", "", exists, 0)
	if !errors.Is(err, ErrSlugProbesExhausted) {
		t.Fatalf("expected ErrSlugProbesExhausted, got %v", err)
	}
	if got != "my-event-new" {
		t.Fatalf("fallback slug = %q, want my-event-new", got)
	}

	got, err = GenerateUniqueSlug(context.Background(), "My Event", "", exists, 42)
	if !errors.Is(err, ErrSlugProbesExhausted) {
		t.Fatalf("expected ErrSlugProbesExhausted, got %v", err)
	}
	if got != "my-event-42" {
		t.Fatalf("fallback slug = %q, want my-event-42", got)
	}
}

func TestGenerateUniqueSlugOracleError(t *testing.T) {
	oracleErr := fmt.Errorf("connection refused")
	exists := func(ctx context.Context, candidate string, excludeID int64) (bool, error) {
		return false, oracleErr
	}
	got, err := GenerateUniqueSlug(context.Background(), "My Event", "", exists, 0)
	if !errors.Is(err, oracleErr) {
		t.Fatalf("expected wrapped oracle error, got %v", err)
	}
	if got != "my-event" {
		t.Fatalf("expected base candidate on oracle error, got %q", got)
	}
}
