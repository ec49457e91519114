package filter

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Classifier is the two-list title filter used by the listing crawler.
// A title is rejected when any exclusion keyword appears, otherwise it is
// accepted only when an inclusion keyword appears.
type Classifier struct {
	exclude []string
	include []string
}

// NewClassifier builds a classifier; nil lists fall back to the defaults.
func NewClassifier(include, exclude []string) *Classifier {
	if include == nil {
		include = DefaultInclude
	}
	if exclude == nil {
		exclude = DefaultExclude
	}
	return &Classifier{
		exclude: normalizeAll(exclude),
		include: normalizeAll(include),
	}
}

// Accept reports whether title looks like a recruitment announcement.
func (c *Classifier) Accept(title string) bool {
	t := norm.NFKC.String(title)
	for _, kw := range c.exclude {
		if strings.Contains(t, kw) {
			return false
		}
	}
	for _, kw := range c.include {
		if strings.Contains(t, kw) {
			return true
		}
	}
	return false
}

func normalizeAll(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		if w = strings.TrimSpace(norm.NFKC.String(w)); w != "" {
			out = append(out, w)
		}
	}
	return out
}
