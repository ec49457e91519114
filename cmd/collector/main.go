package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"

	"go-gongkao-sync/internal/browser"
	"go-gongkao-sync/internal/config"
	"go-gongkao-sync/internal/models"
	"go-gongkao-sync/internal/notion"
	"go-gongkao-sync/internal/pipeline"
	"go-gongkao-sync/internal/scraper"
	"go-gongkao-sync/internal/scraper/gongkaoleida"
	"go-gongkao-sync/internal/state"
	"go-gongkao-sync/internal/syncer"
	"go-gongkao-sync/internal/telegram"
)

func main() {
	var (
		cmd        = flag.String("cmd", "run", "Stage to run: run, list, detail, process, sync")
		configPath = flag.String("config", config.DefaultPath, "Path to config.yaml")
		pages      = flag.Int("pages", 0, "Override crawl.max_pages")
		month      = flag.String("month", "", "Override crawl.target_month (YYYY-MM)")
	)
	flag.Parse()

	runID := uuid.NewString()[:8]
	log.SetPrefix("[" + runID + "] ")

	cfg, err := config.LoadFrom(*configPath)
	if err != nil {
		log.Fatalf("❌ Config error: %v", err)
	}
	if *pages > 0 {
		cfg.Crawl.MaxPages = *pages
	}
	if *month != "" {
		cfg.Crawl.TargetMonth = *month
		if err := cfg.Validate(); err != nil {
			log.Fatalf("❌ Config error: %v", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg, *cmd, runID)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	defer a.close()

	log.Printf("🚀 Starting %s (run %s)...", *cmd, runID)
	if *cmd == "run" {
		a.bot.SendStatus(fmt.Sprintf("🚀 Collecting %s (run %s)", cfg.Site.SourceName, runID))
	}
	if err := a.run(ctx); err != nil {
		a.bot.SendError(err)
		a.close()
		log.Fatalf("❌ %s failed: %v", *cmd, err)
	}
}

// stageStore is the part of state.Store the stages use.
type stageStore interface {
	SaveStubs(label string, stubs []models.PostingStub) (string, error)
	LatestStubs() ([]models.PostingStub, string, error)
	UpsertDetails(details []models.PostingDetail) (int, error)
	LoadDetails() ([]models.PostingDetail, error)
	SavePostings(label string, postings []models.JobPosting) (string, error)
	LatestPostings() ([]models.JobPosting, string, error)
	ClearDetails() error
}

type app struct {
	cfg     *config.Config
	cmd     string
	runID   string
	started time.Time

	store  stageStore
	unlock func() error
	bot    *telegram.Bot

	renderer *browser.PlaywrightManager
	client   *notion.Client
	database *notion.Database

	summary telegram.Summary
}

// newApp checks every precondition of cmd before any stage runs.
func newApp(ctx context.Context, cfg *config.Config, cmd, runID string) (*app, error) {
	switch cmd {
	case "run", "list", "detail", "process", "sync":
	default:
		return nil, fmt.Errorf("unknown -cmd %q (want run, list, detail, process or sync)", cmd)
	}

	a := &app{
		cfg:     cfg,
		cmd:     cmd,
		runID:   runID,
		started: time.Now(),
		summary: telegram.Summary{RunID: runID, Command: cmd},
	}

	store, err := state.NewStore(cfg.Paths.DataDir)
	if err != nil {
		return nil, err
	}
	unlock, err := store.Lock()
	if err != nil {
		if errors.Is(err, state.ErrLocked) {
			return nil, fmt.Errorf("%w (%s)", err, cfg.Paths.DataDir)
		}
		return nil, err
	}
	a.store, a.unlock = store, unlock

	if a.bot, err = telegram.FromConfig(cfg.Telegram); err != nil {
		log.Printf("⚠️ Telegram disabled: %v", err)
	}

	if cmd == "run" || cmd == "sync" {
		if err := a.connectRemote(ctx); err != nil {
			a.close()
			return nil, err
		}
	}
	return a, nil
}

func (a *app) connectRemote(ctx context.Context) error {
	if err := a.cfg.ValidateRemote(); err != nil {
		return err
	}
	a.client = notion.NewClient(a.cfg.Notion)
	db, err := a.client.ResolveDatabase(ctx, a.cfg.Notion.DatabaseID, a.cfg.Notion.DatabaseName)
	if err != nil {
		return fmt.Errorf("remote database unavailable: %w", err)
	}
	a.database = db
	log.Printf("🗄️ Using database %q (%s)", db.Name(), db.ID)
	return nil
}

func (a *app) ensureBrowser() (*browser.PlaywrightManager, error) {
	if a.renderer != nil {
		return a.renderer, nil
	}
	pm, err := browser.NewPlaywright(browser.Options{
		Headless:      !a.cfg.Crawl.Headful,
		UserAgent:     a.cfg.Crawl.UserAgent,
		ScreenshotDir: a.cfg.Paths.ScreenshotDir,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to init Playwright: %w", err)
	}
	a.renderer = pm
	log.Println("✅ Browser initialized")
	return pm, nil
}

func (a *app) close() {
	if a.renderer != nil {
		if err := a.renderer.Close(); err != nil {
			log.Printf("⚠️ Closing browser: %v", err)
		}
		a.renderer = nil
	}
	if a.unlock != nil {
		a.unlock()
		a.unlock = nil
	}
}

func (a *app) run(ctx context.Context) error {
	var err error
	switch a.cmd {
	case "list":
		_, err = a.list(ctx)
	case "detail":
		err = a.detailFromLatest(ctx)
	case "process":
		_, err = a.processFromLatest()
	case "sync":
		err = a.syncFromLatest(ctx)
	case "run":
		err = a.runAll(ctx)
	}
	if err != nil {
		return err
	}

	a.summary.Duration = time.Since(a.started)
	s := a.summary
	log.Printf("📊 Summary: scraped=%d details=%d created=%d skipped=%d failed=%d (%s)",
		s.Scraped, s.Details, s.Created, s.Skipped, s.Failed, s.Duration.Round(time.Second))
	if a.cmd == "run" || a.cmd == "sync" {
		if err := a.bot.SendSummary(s); err != nil {
			log.Printf("⚠️ Failed to send Telegram summary: %v", err)
		}
	}
	return nil
}

func (a *app) runAll(ctx context.Context) error {
	stubs, err := a.list(ctx)
	if err != nil {
		return err
	}
	if len(stubs) == 0 {
		log.Println("⚠️ No recruitment postings found, nothing to sync")
		return nil
	}
	if err := a.detail(ctx, stubs); err != nil {
		return err
	}
	postings, err := a.process(stubs)
	if err != nil {
		return err
	}
	return a.sync(ctx, postings)
}

// label names this run's stage files: the target month, else today.
func (a *app) label() string {
	if m := a.cfg.Crawl.TargetMonth; m != "" {
		return strings.ReplaceAll(m, "-", "")
	}
	return a.started.Format("20060102")
}

func (a *app) list(ctx context.Context) ([]models.PostingStub, error) {
	pm, err := a.ensureBrowser()
	if err != nil {
		return nil, err
	}
	crawler, err := gongkaoleida.NewListingCrawler(a.cfg, pm)
	if err != nil {
		return nil, err
	}

	stubs := crawler.FetchListing(ctx, a.cfg.Crawl.MaxPages)
	a.summary.Scraped = len(stubs)
	if len(stubs) == 0 {
		return nil, nil
	}
	if _, err := a.store.SaveStubs(a.label(), stubs); err != nil {
		return nil, err
	}
	for i, s := range stubs[:min(5, len(stubs))] {
		log.Printf("   %d. %s", i+1, s.Title)
	}
	return stubs, nil
}

func (a *app) detailFromLatest(ctx context.Context) error {
	stubs, path, err := a.store.LatestStubs()
	if err != nil {
		return err
	}
	log.Printf("📂 Loaded %d stubs from %s", len(stubs), path)
	return a.detail(ctx, stubs)
}

// detail fetches the pages not already stored with content.
func (a *app) detail(ctx context.Context, stubs []models.PostingStub) error {
	stored, err := a.store.LoadDetails()
	if err != nil {
		return err
	}
	done := make(map[string]bool, len(stored))
	for _, d := range stored {
		if !d.Failed() {
			done[d.URL] = true
		}
	}

	var urls []string
	for _, s := range stubs {
		if !done[s.URL] {
			urls = append(urls, s.URL)
		}
	}
	log.Printf("📄 Fetching %d detail pages (%d already stored)", len(urls), len(stubs)-len(urls))
	if len(urls) == 0 {
		return nil
	}

	pm, err := a.ensureBrowser()
	if err != nil {
		return err
	}
	fetcher := gongkaoleida.NewDetailFetcher(a.cfg, pm)
	limiter := browser.NewHostLimiter(a.cfg.Crawl.RequestsPerSecond, 1)
	details := scraper.FetchDetails(ctx, fetcher, urls, a.cfg.Crawl.DetailConcurrency, limiter)

	failed := 0
	for _, d := range details {
		if d.Failed() {
			failed++
		}
	}
	a.summary.Details = len(details) - failed

	n, err := a.store.UpsertDetails(details)
	if err != nil {
		return err
	}
	log.Printf("💾 Stored %d details (%d failed)", n, failed)
	return nil
}

func (a *app) processFromLatest() ([]models.JobPosting, error) {
	stubs, path, err := a.store.LatestStubs()
	if err != nil {
		return nil, err
	}
	log.Printf("📂 Loaded %d stubs from %s", len(stubs), path)
	return a.process(stubs)
}

func (a *app) process(stubs []models.PostingStub) ([]models.JobPosting, error) {
	details, err := a.store.LoadDetails()
	if err != nil {
		return nil, err
	}
	postings := pipeline.Merge(stubs, details, a.cfg.Site.SourceName, time.Now())
	if _, err := a.store.SavePostings(a.label(), postings); err != nil {
		return nil, err
	}
	if err := a.store.ClearDetails(); err != nil {
		log.Printf("⚠️ %v", err)
	}
	log.Printf("🧩 Processed %d postings", len(postings))
	return postings, nil
}

func (a *app) syncFromLatest(ctx context.Context) error {
	postings, path, err := a.store.LatestPostings()
	if err != nil {
		return err
	}
	log.Printf("📂 Loaded %d postings from %s", len(postings), path)
	return a.sync(ctx, postings)
}

func (a *app) sync(ctx context.Context, postings []models.JobPosting) error {
	engine := syncer.NewEngine(a.client, syncer.Options{
		DatabaseID:   a.database.ID,
		MaxAttempts:  a.cfg.Notion.MaxAttempts,
		DedupByTitle: a.cfg.Notion.TitleDedup(),
	})

	log.Printf("🔄 Syncing %d postings...", len(postings))
	report, err := engine.Sync(ctx, postings)
	if report != nil {
		a.summary.Created = report.Created
		a.summary.Skipped = report.Skipped
		a.summary.Failed = report.Failed
		for _, o := range report.Outcomes {
			if o.Result == syncer.Created {
				a.summary.New = append(a.summary.New, telegram.CreatedPosting{Title: o.Title, URL: o.URL})
			}
		}
		log.Printf("✅ Sync finished: %s", report)
	}
	return err
}
