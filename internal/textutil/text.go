package textutil

import (
	"strings"
	"unicode/utf8"
)

// CleanText collapses all whitespace runs (including NBSP) to single spaces.
func CleanText(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = strings.ReplaceAll(s, "\u3000", " ")
	return strings.Join(strings.Fields(s), " ")
}

// CleanLines cleans every line on its own and drops empty ones, keeping the
// paragraph structure of rendered text.
func CleanLines(s string) string {
	lines := strings.Split(s, "\n")
	out := lines[:0]
	for _, line := range lines {
		if line = CleanText(line); line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}

// Truncate cuts s to at most max runes.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	return string(r[:max])
}

// Ellipsize cuts s to at most max runes, ending with "..." when cut.
func Ellipsize(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	if max <= 3 {
		return Truncate(s, max)
	}
	return Truncate(s, max-3) + "..."
}

func RuneLen(s string) int {
	return utf8.RuneCountInString(s)
}
