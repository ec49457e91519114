package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"go-gongkao-sync/internal/browser"
	"go-gongkao-sync/internal/config"
	"go-gongkao-sync/internal/scraper/gongkaoleida"
)

// Renders one listing page and one detail page and prints what the parsers
// see, without touching state or Notion.
func main() {
	configPath := flag.String("config", config.DefaultPath, "Path to config file")
	detailURL := flag.String("detail", "", "Optional detail URL to fetch")
	flag.Parse()

	fmt.Println("🌐 Testing Browser Manager...")

	cfg, err := config.LoadFrom(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	pm, err := browser.NewPlaywright(browser.Options{
		Headless:      !cfg.Crawl.Headful,
		UserAgent:     cfg.Crawl.UserAgent,
		ScreenshotDir: cfg.Paths.ScreenshotDir,
	})
	if err != nil {
		log.Fatalf("Failed to create Playwright: %v", err)
	}
	defer pm.Close()

	fmt.Println("✅ Playwright started")

	crawler, err := gongkaoleida.NewListingCrawler(cfg, pm)
	if err != nil {
		log.Fatalf("Failed to create crawler: %v", err)
	}

	fmt.Printf("🔍 Navigating to %s\n", crawler.PageURL(1))
	stubs := crawler.FetchListing(ctx, 1)
	fmt.Printf("✅ Page 1 yielded %d postings\n", len(stubs))
	for i, s := range stubs {
		fmt.Printf("   %d. %s [%s]\n      %s\n", i+1, s.Title, s.DateHint, s.URL)
	}

	target := *detailURL
	if target == "" && len(stubs) > 0 {
		target = stubs[0].URL
	}
	if target == "" {
		fmt.Println("✨ Test complete!")
		return
	}

	d := gongkaoleida.NewDetailFetcher(cfg, pm).FetchDetail(ctx, target)
	if d.Failed() {
		log.Fatalf("Failed to fetch detail: %s", d.Error)
	}
	fmt.Printf("✅ Detail: %s (%d chars, date %q)\n", d.Title, len([]rune(d.Content)), d.DateText)
	fmt.Println("✨ Test complete!")
}
