// Package scraper holds the site-independent parts of collection: the
// source interfaces, HTML helpers and the batch detail runner.
package scraper

import (
	"context"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"go-gongkao-sync/internal/browser"
	"go-gongkao-sync/internal/models"
)

// Lister discovers posting stubs on a paginated listing site.
type Lister interface {
	// FetchListing never fails as a whole; broken pages count as empty.
	FetchListing(ctx context.Context, maxPages int) []models.PostingStub

	// Name is the source site name.
	Name() string
}

// DetailFetcher reads the long-form content of one posting. It always
// returns a record; failures are reported through PostingDetail.Error.
type DetailFetcher interface {
	FetchDetail(ctx context.Context, url string) models.PostingDetail
}

// FetchDetails runs f over urls with at most concurrency fetches in flight,
// waiting on limiter before each one. The result is index-aligned with urls.
func FetchDetails(ctx context.Context, f DetailFetcher, urls []string, concurrency int, limiter *browser.HostLimiter) []models.PostingDetail {
	out := make([]models.PostingDetail, len(urls))
	if concurrency < 1 {
		concurrency = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, u := range urls {
		g.Go(func() error {
			if err := limiter.WaitURL(gctx, u); err != nil {
				out[i] = models.PostingDetail{URL: u, Error: err.Error()}
				return nil
			}
			log.Printf("   🔍 [%d/%d] %s", i+1, len(urls), u)
			d := f.FetchDetail(gctx, u)
			if d.URL == "" {
				d.URL = u
			}
			if d.Failed() {
				log.Printf("   ⚠️ Detail failed for %s: %s", u, d.Error)
			}
			out[i] = d
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// Sleep waits for d or until ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
