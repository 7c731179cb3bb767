package seo

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSummarize(t *testing.T) {
	longTail := strings.Repeat(" and then some more detail", 10)

	tests := []struct {
		name string
		text string
		want string
	}{
		{name: "empty", text: "", want: ""},
		{name: "whitespace only", text: "   \n\t ", want: ""},
		{name: "short text unchanged", text: "Short text.", want: "Short text."},
		{name: "whitespace collapsed", text: "  Annual   county\nfair.  ", want: "Annual county fair."},
		{
			name: "first sentence kept",
			text: "The fair returns with rides and food trucks." + longTail,
			want: "The fair returns with rides and food trucks.",
		},
		{
			name: "exclamation sentence gets period",
			text: "Join us for the big parade!" + longTail,
			want: "Join us for the big parade.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Summarize(tt.text, MaxShortDescription)
			if got != tt.want {
				t.Fatalf("Summarize(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestSummarizeWordBoundary(t *testing.T) {
	text := strings.TrimSpace(strings.Repeat("antique ", 25))
	got := Summarize(text, MaxShortDescription)
	want := strings.TrimSpace(strings.Repeat("antique ", 19)) + "..."
	if got != want {
		t.Fatalf("Summarize = %q (len %d), want %q", got, len(got), want)
	}
}

func TestSummarizeHardTruncate(t *testing.T) {
	got := Summarize(strings.Repeat("a", 300), MaxShortDescription)
	if len(got) != MaxShortDescription {
		t.Fatalf("length = %d, want %d", len(got), MaxShortDescription)
	}
	if !strings.HasSuffix(got, "...") {
		t.Fatalf("expected ellipsis suffix, got %q", got[len(got)-10:])
	}
}

func TestSummarizeBound(t *testing.T) {
	inputs := []string{
		"",
		"one",
		strings.Repeat("word ", 100),
		strings.Repeat("x", 500),
		"First. Second. Third." + strings.Repeat(" filler", 50),
		strings.Repeat("é", 400),
	}
	for _, in := range inputs {
		got := Summarize(in, MaxShortDescription)
		if n := utf8.RuneCountInString(got); n > MaxShortDescription {
			t.Fatalf("Summarize(%d chars) produced %d chars", utf8.RuneCountInString(in), n)
		}
	}
}

func TestSummarizeTinyBudget(t *testing.T) {
	if got := Summarize("hello world", 3); got != "hel" {
		t.Fatalf("Summarize with maxLen 3 = %q, want %q", got, "hel")
	}
	if got := Summarize("hello world", 0); got != "" {
		t.Fatalf("Summarize with maxLen 0 = %q, want empty", got)
	}
}
