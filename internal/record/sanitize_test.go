package record

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSanitizeExcerpt(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"trims whitespace", "  rough day  ", "rough day"},
		{"keeps newlines", "line one\nline two", "line one\nline two"},
		{"strips control chars", "odd\x00byte\x07here", "odd byte here"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeExcerpt(tt.in); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}

	t.Run("truncates to the cap", func(t *testing.T) {
		long := strings.Repeat("a", 2*MaxExcerptLen)
		got := SanitizeExcerpt(long)
		if len(got) != MaxExcerptLen {
			t.Errorf("len = %d, want %d", len(got), MaxExcerptLen)
		}
	})

	t.Run("does not split multibyte runes", func(t *testing.T) {
		tests := []struct {
			name    string
			in      string
			wantLen int
		}{
			// 140 complete é fill the cap exactly; the final rune
			// must survive intact
			{"cut on a rune boundary", strings.Repeat("é", MaxExcerptLen), MaxExcerptLen},
			// the leading "a" shifts the cut into the middle of the
			// last é, whose lead byte must be dropped too
			{"cut inside a rune", "a" + strings.Repeat("é", MaxExcerptLen/2), MaxExcerptLen - 1},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				got := SanitizeExcerpt(tt.in)
				if !utf8.ValidString(got) {
					t.Fatalf("truncation produced invalid UTF-8: tail=% x", got[len(got)-2:])
				}
				if len(got) != tt.wantLen {
					t.Errorf("len = %d, want %d", len(got), tt.wantLen)
				}
				if !strings.HasSuffix(got, "é") {
					t.Error("truncation split the final rune")
				}
			})
		}
	})
}

func TestPayloadStrip(t *testing.T) {
	p := SanitizedPayload{
		Journals: []JournalRecord{
			{RedactedExcerpt: "  " + strings.Repeat("x", MaxExcerptLen+50)},
		},
	}
	p.Strip()
	if len(p.Journals[0].RedactedExcerpt) > MaxExcerptLen {
		t.Errorf("excerpt not truncated: %d bytes", len(p.Journals[0].RedactedExcerpt))
	}
}
