package layout

import (
	"strings"

	"github.com/dshills/folio/internal/cssom"
)

// collapsesSegmentBreaks reports whether newlines are folded into spaces
// for a white-space value.
func collapsesSegmentBreaks(ws cssom.Keyword) bool {
	return ws != cssom.KeywordPre && ws != cssom.KeywordPreLine && ws != cssom.KeywordPreWrap
}

// collapsesWhiteSpace reports whether runs of white space collapse.
func collapsesWhiteSpace(ws cssom.Keyword) bool {
	return ws != cssom.KeywordPre && ws != cssom.KeywordPreWrap
}

// allowsWrapping reports whether lines may wrap at soft opportunities.
func allowsWrapping(ws cssom.Keyword) bool {
	return ws != cssom.KeywordPre && ws != cssom.KeywordNoWrap
}

func isWhiteSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\f':
		return true
	}
	return false
}

// CollapseWhiteSpace replaces every run of white space with one space.
// Leading and trailing runs are kept as a single space.
func CollapseWhiteSpace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inSpace := false
	for _, r := range s {
		if isWhiteSpace(r) {
			if !inSpace {
				b.WriteByte(' ')
				inSpace = true
			}
			continue
		}
		inSpace = false
		b.WriteRune(r)
	}
	return b.String()
}

// nextNewline finds the first segment break at or after byte offset from.
// It returns the break's byte offset and length, or len(s) and 0 when
// there is none. CRLF counts as a single break.
func nextNewline(s string, from int) (start, length int) {
	for i := from; i < len(s); i++ {
		switch s[i] {
		case '\r':
			if i+1 < len(s) && s[i+1] == '\n' {
				return i, 2
			}
			return i, 1
		case '\n':
			return i, 1
		}
	}
	return len(s), 0
}
