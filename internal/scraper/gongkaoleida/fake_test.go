package gongkaoleida

import (
	"context"
	"errors"
	"sync"

	"go-gongkao-sync/internal/browser"
)

// fakeRenderer serves canned HTML per URL; unknown URLs fail.
type fakeRenderer struct {
	mu     sync.Mutex
	pages  map[string]string
	titles map[string]string
	calls  []string
}

func (f *fakeRenderer) Render(_ context.Context, url string, _ browser.RenderOptions) (*browser.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, url)
	html, ok := f.pages[url]
	if !ok {
		return nil, errors.New("navigation timeout")
	}
	return &browser.Page{URL: url, Title: f.titles[url], HTML: html}, nil
}
