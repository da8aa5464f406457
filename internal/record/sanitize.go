package record

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxExcerptLen bounds every excerpt the engine is allowed to see.
const MaxExcerptLen = 280

// SanitizeExcerpt trims, strips control characters, and truncates to the
// excerpt limit. Redaction proper happens upstream; this is the last-line
// defensive pass applied at every boundary the text crosses.
func SanitizeExcerpt(s string) string {
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && r != '\n' {
			return ' '
		}
		return r
	}, s)
	s = strings.TrimSpace(s)
	if len(s) > MaxExcerptLen {
		cut := s[:MaxExcerptLen]
		// drop bytes of a rune the cut landed inside; a complete final
		// rune stays
		for len(cut) > 0 {
			r, size := utf8.DecodeLastRuneInString(cut)
			if r == utf8.RuneError && size <= 1 {
				cut = cut[:len(cut)-1]
				continue
			}
			break
		}
		s = cut
	}
	return s
}

// Strip re-sanitizes every excerpt in the payload. The orchestrator calls
// this before composing so residual raw text can never reach a stored
// insight.
func (p *SanitizedPayload) Strip() {
	for i := range p.Journals {
		p.Journals[i].RedactedExcerpt = SanitizeExcerpt(p.Journals[i].RedactedExcerpt)
	}
}
