package filter

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

// MonthMatcher keeps listing entries that mention one target month.
type MonthMatcher struct {
	month string
	re    *regexp.Regexp
}

// NewMonthMatcher parses a "YYYY-MM" month. An empty string yields a nil
// matcher, which matches everything.
func NewMonthMatcher(month string) (*MonthMatcher, error) {
	month = strings.TrimSpace(month)
	if month == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01", month)
	if err != nil {
		return nil, fmt.Errorf("invalid target month %q (want YYYY-MM): %w", month, err)
	}
	y, m := t.Year(), int(t.Month())
	// 2026年1月 | 2026年01月 | 2026-01 | 2026-1 | 2026/01 | 2026.01
	pattern := fmt.Sprintf(`%d\s*年\s*0?%d\s*月|%d[-/.]0?%d(?:\D|$)`, y, m, y, m)
	return &MonthMatcher{month: t.Format("2006-01"), re: regexp.MustCompile(pattern)}, nil
}

// Match reports whether any of texts mentions the target month.
func (mm *MonthMatcher) Match(texts ...string) bool {
	if mm == nil {
		return true
	}
	for _, t := range texts {
		if mm.re.MatchString(norm.NFKC.String(t)) {
			return true
		}
	}
	return false
}

// String returns the month as YYYY-MM, or "" for the nil matcher.
func (mm *MonthMatcher) String() string {
	if mm == nil {
		return ""
	}
	return mm.month
}
