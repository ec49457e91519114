// Package browser renders client-side pages for the scrapers.
package browser

import (
	"context"
	"time"
)

// RenderOptions bounds one navigation.
type RenderOptions struct {
	// Timeout caps the navigation itself.
	Timeout time.Duration
	// Settle is waited after navigation so client-side rendering finishes.
	Settle time.Duration
	// Scroll triggers lazy-loaded content before the DOM is read.
	Scroll bool
}

// Page is the rendered DOM of one URL.
type Page struct {
	URL   string
	Title string
	HTML  string
}

// Renderer turns a URL into a rendered page. Implementations must not share
// session state (cookies, cache) between calls.
type Renderer interface {
	Render(ctx context.Context, url string, opts RenderOptions) (*Page, error)
}
