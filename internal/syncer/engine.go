// Package syncer writes canonical postings to the remote store without
// creating duplicates.
//
// A sync first reads the dedup keys of every existing remote record, then
// walks the incoming postings in order: a posting whose URL (or, when
// enabled, title) is already known is skipped, anything else is created
// with bounded retries. Keys of created postings join the known set at
// once, so duplicates inside one batch are caught too.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"go-gongkao-sync/internal/models"
	"go-gongkao-sync/internal/notion"
)

// Store is the part of the remote client the engine uses.
type Store interface {
	QueryDatabase(ctx context.Context, databaseID string, req notion.QueryRequest) (*notion.QueryResponse, error)
	CreatePage(ctx context.Context, databaseID string, props notion.Properties) (*notion.Page, error)
}

type Options struct {
	DatabaseID   string
	MaxAttempts  int
	DedupByTitle bool
}

type Engine struct {
	store Store
	opts  Options
	sleep func(ctx context.Context, d time.Duration) error
}

func NewEngine(store Store, opts Options) *Engine {
	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = 3
	}
	return &Engine{store: store, opts: opts, sleep: sleepCtx}
}

// Backoff is the wait after the given failed attempt (1-based): 2s, 4s, 6s...
func Backoff(attempt int) time.Duration {
	return time.Duration(attempt) * 2 * time.Second
}

type Result string

const (
	Created Result = "created"
	Skipped Result = "skipped"
	Failed  Result = "failed"
)

// Outcome is what happened to one incoming posting.
type Outcome struct {
	URL      string
	Title    string
	Result   Result
	Reason   string
	PageID   string
	Attempts int
	Err      error
}

type Report struct {
	Created  int
	Skipped  int
	Failed   int
	Outcomes []Outcome
}

func (r *Report) add(o Outcome) {
	switch o.Result {
	case Created:
		r.Created++
	case Skipped:
		r.Skipped++
	case Failed:
		r.Failed++
	}
	r.Outcomes = append(r.Outcomes, o)
}

func (r *Report) String() string {
	return fmt.Sprintf("created=%d skipped=%d failed=%d", r.Created, r.Skipped, r.Failed)
}

// ExistingKeys holds the dedup keys of the remote records.
type ExistingKeys struct {
	URLs   map[string]struct{}
	Titles map[string]struct{}
}

func newExistingKeys() *ExistingKeys {
	return &ExistingKeys{URLs: map[string]struct{}{}, Titles: map[string]struct{}{}}
}

func (k *ExistingKeys) add(url, title string) {
	if url = strings.TrimSpace(url); url != "" {
		k.URLs[url] = struct{}{}
	}
	if title = strings.TrimSpace(title); title != "" {
		k.Titles[title] = struct{}{}
	}
}

func (k *ExistingKeys) hasURL(url string) bool {
	_, ok := k.URLs[strings.TrimSpace(url)]
	return ok
}

func (k *ExistingKeys) hasTitle(title string) bool {
	title = strings.TrimSpace(title)
	if title == "" {
		return false
	}
	_, ok := k.Titles[title]
	return ok
}

// LoadExisting reads every remote page, following the cursor to the end.
// Each page request is retried like a create.
func (e *Engine) LoadExisting(ctx context.Context) (*ExistingKeys, error) {
	keys := newExistingKeys()
	req := notion.QueryRequest{PageSize: notion.MaxPageSize}
	pages := 0
	for {
		var resp *notion.QueryResponse
		_, err := e.withRetry(ctx, "query existing records", func(ctx context.Context) error {
			var err error
			resp, err = e.store.QueryDatabase(ctx, e.opts.DatabaseID, req)
			return err
		})
		if err != nil {
			return nil, fmt.Errorf("read existing records (page %d): %w", pages+1, err)
		}
		pages++
		for _, p := range resp.Results {
			keys.add(notion.PageURL(p), notion.PageTitle(p))
		}
		if !resp.HasMore || resp.NextCursor == "" {
			break
		}
		req.StartCursor = resp.NextCursor
	}
	log.Printf("📚 Remote store has %d URLs and %d titles (%d pages)", len(keys.URLs), len(keys.Titles), pages)
	return keys, nil
}

// Sync creates the postings that are not in the remote store yet. The error
// is non-nil only when the remote read fails or ctx ends; per-record
// failures are reported in the Report.
func (e *Engine) Sync(ctx context.Context, postings []models.JobPosting) (*Report, error) {
	existing, err := e.LoadExisting(ctx)
	if err != nil {
		return nil, err
	}

	report := &Report{}
	for i, p := range postings {
		if err := ctx.Err(); err != nil {
			for _, rest := range postings[i:] {
				report.add(Outcome{URL: rest.OriginalURL, Title: rest.PositionTitle, Result: Failed, Reason: "cancelled", Err: err})
			}
			return report, err
		}

		o := e.syncOne(ctx, p, existing)
		switch o.Result {
		case Created:
			log.Printf("   ✅ [%d/%d] Created: %s", i+1, len(postings), o.Title)
		case Skipped:
			log.Printf("   ⏭️ [%d/%d] Skipped (%s): %s", i+1, len(postings), o.Reason, o.Title)
		case Failed:
			log.Printf("   ❌ [%d/%d] Failed after %d attempt(s): %s: %v", i+1, len(postings), o.Attempts, o.Title, o.Err)
		}
		report.add(o)
	}
	return report, nil
}

func (e *Engine) syncOne(ctx context.Context, p models.JobPosting, existing *ExistingKeys) Outcome {
	o := Outcome{URL: strings.TrimSpace(p.OriginalURL), Title: p.PositionTitle}

	switch {
	case o.URL == "":
		o.Result, o.Reason, o.Err = Failed, "missing original URL", errors.New("posting has no original URL")
		return o
	case existing.hasURL(o.URL):
		o.Result, o.Reason = Skipped, "duplicate URL"
		return o
	case e.opts.DedupByTitle && existing.hasTitle(p.PositionTitle):
		o.Result, o.Reason = Skipped, "duplicate title"
		return o
	}

	props := notion.EncodePosting(p)
	var page *notion.Page
	attempts, err := e.withRetry(ctx, "create "+o.URL, func(ctx context.Context) error {
		var err error
		page, err = e.store.CreatePage(ctx, e.opts.DatabaseID, props)
		return err
	})
	o.Attempts = attempts
	if err != nil {
		o.Result, o.Err = Failed, err
		if notion.IsTransient(err) {
			o.Reason = "retries exhausted"
		} else {
			o.Reason = "rejected"
		}
		return o
	}

	o.Result = Created
	if page != nil {
		o.PageID = page.ID
	}
	existing.add(o.URL, p.PositionTitle)
	return o
}

// withRetry runs fn until it succeeds, fails permanently or MaxAttempts is
// reached, sleeping Backoff(attempt) between attempts.
func (e *Engine) withRetry(ctx context.Context, op string, fn func(ctx context.Context) error) (int, error) {
	maxAttempts := e.opts.MaxAttempts
	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err = fn(ctx); err == nil {
			return attempt, nil
		}
		if !notion.IsTransient(err) || attempt == maxAttempts {
			return attempt, err
		}
		wait := Backoff(attempt)
		log.Printf("   ⚠️ %s failed (attempt %d/%d), retrying in %v: %v", op, attempt, maxAttempts, wait, err)
		if serr := e.sleep(ctx, wait); serr != nil {
			return attempt, err
		}
	}
	return maxAttempts, err
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
