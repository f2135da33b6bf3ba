package webamon

import (
	"strings"
	"unicode/utf8"
)

// The search backend wraps matched substrings in <mark> pairs. These are
// display annotations, not data: the table renderer converts them into
// terminal highlighting, and they never count toward a value's printable
// length.
const (
	markOpen  = "<mark>"
	markClose = "</mark>"
)

// Segment is a run of text with a single highlight state.
type Segment struct {
	Text   string
	Marked bool
}

// SplitMarks decomposes a string containing <mark> pairs into an ordered
// sequence of segments. Text outside any pair is unmarked; an unterminated
// open marker highlights through to the end of the string.
func SplitMarks(s string) []Segment {
	var segs []Segment

	for s != "" {
		open := strings.Index(s, markOpen)
		if open == -1 {
			segs = append(segs, Segment{Text: s})
			break
		}
		if open > 0 {
			segs = append(segs, Segment{Text: s[:open]})
		}
		s = s[open+len(markOpen):]

		end := strings.Index(s, markClose)
		if end == -1 {
			segs = append(segs, Segment{Text: s, Marked: true})
			break
		}
		if end > 0 {
			segs = append(segs, Segment{Text: s[:end], Marked: true})
		}
		s = s[end+len(markClose):]
	}

	return segs
}

// StripMarks removes the marker pairs, leaving the printable text.
func StripMarks(s string) string {
	if !strings.Contains(s, markOpen) {
		return s
	}
	s = strings.ReplaceAll(s, markOpen, "")
	return strings.ReplaceAll(s, markClose, "")
}

// printableLen is the rune count of the string with markers stripped.
func printableLen(s string) int {
	return utf8.RuneCountInString(StripMarks(s))
}

// TruncateMarked shortens s to at most max printable characters, appending
// "..." when anything was cut. Truncation operates on the segment
// decomposition so a marker pair is never split: the result re-emits
// balanced <mark> pairs around whatever highlighted text survived.
func TruncateMarked(s string, max int) string {
	if printableLen(s) <= max {
		return s
	}

	budget := max - 3
	if budget < 0 {
		budget = 0
	}

	var b strings.Builder
	for _, seg := range SplitMarks(s) {
		if budget <= 0 {
			break
		}
		// the budget counts runes, not bytes: cutting mid-rune would leave
		// mangled multi-byte characters at the ellipsis.
		text := seg.Text
		if runes := []rune(text); len(runes) > budget {
			text = string(runes[:budget])
		}
		budget -= utf8.RuneCountInString(text)

		if seg.Marked {
			b.WriteString(markOpen)
			b.WriteString(text)
			b.WriteString(markClose)
		} else {
			b.WriteString(text)
		}
	}

	b.WriteString("...")
	return b.String()
}
