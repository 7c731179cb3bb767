package ingest

import "testing"

func TestSanitizeDescription(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "empty", raw: "", want: ""},
		{name: "plain text", raw: "Live music downtown.", want: "Live music downtown."},
		{
			name: "markup stripped",
			raw:  "<p>Live <b>music</b> downtown.</p>",
			want: "Live music downtown.",
		},
		{
			name: "entities decoded",
			raw:  "Food &amp; drinks",
			want: "Food & drinks",
		},
		{
			name: "script body dropped",
			raw:  "<p>Concert tonight.</p><script>alert('x')</script>",
			want: "Concert tonight.",
		},
		{
			name: "whitespace collapsed per line",
			raw:  "First   line\n\n\n  Second    line  ",
			want: "First line\nSecond line",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizeDescription(tt.raw)
			if got != tt.want {
				t.Fatalf("SanitizeDescription(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestSourceHost(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{name: "bare domain", url: "https://example.com/events/1", want: "example.com"},
		{name: "www stripped to registrable", url: "https://www.example.com", want: "example.com"},
		{name: "subdomain stripped", url: "http://tickets.venue.org/buy", want: "venue.org"},
		{name: "multi level tld", url: "https://shows.theatre.co.uk", want: "theatre.co.uk"},
		{name: "non http scheme", url: "ftp://example.com", want: ""},
		{name: "no host", url: "/relative/path", want: ""},
		{name: "empty", url: "", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SourceHost(tt.url)
			if got != tt.want {
				t.Fatalf("SourceHost(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}
