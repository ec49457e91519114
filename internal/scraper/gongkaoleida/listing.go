package gongkaoleida

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"go-gongkao-sync/internal/browser"
	"go-gongkao-sync/internal/config"
	"go-gongkao-sync/internal/filter"
	"go-gongkao-sync/internal/models"
	"go-gongkao-sync/internal/scraper"
	"go-gongkao-sync/internal/textutil"
)

const (
	minTitleLen   = 10
	maxTitleLen   = 200
	maxContextLen = 500
	// Pagination ends after this many pages in a row with no accepted stub.
	maxEmptyPages = 2
)

var (
	itemPathMarkers = []string{"/article/", "/info/"}
	dateSelectors   = []string{".date", ".time", `[class*="date"]`, `[class*="time"]`}
)

// ListingCrawler walks the region listing page by page.
type ListingCrawler struct {
	cfg        *config.Config
	renderer   browser.Renderer
	classifier *filter.Classifier
	month      *filter.MonthMatcher
	sleep      func(ctx context.Context, d time.Duration) error
}

func NewListingCrawler(cfg *config.Config, r browser.Renderer) (*ListingCrawler, error) {
	month, err := filter.NewMonthMatcher(cfg.Crawl.TargetMonth)
	if err != nil {
		return nil, err
	}
	return &ListingCrawler{
		cfg:        cfg,
		renderer:   r,
		classifier: filter.NewClassifier(cfg.Crawl.IncludeKeywords, cfg.Crawl.ExcludeKeywords),
		month:      month,
		sleep:      scraper.Sleep,
	}, nil
}

func (c *ListingCrawler) Name() string {
	return c.cfg.Site.SourceName
}

// PageURL returns the listing URL of page n (1-based).
func (c *ListingCrawler) PageURL(n int) string {
	base := strings.TrimRight(c.cfg.Site.BaseURL, "/")
	return fmt.Sprintf("%s/area/%s?page=%d", base, c.cfg.Site.RegionCode, n)
}

func (c *ListingCrawler) FetchListing(ctx context.Context, maxPages int) []models.PostingStub {
	var stubs []models.PostingStub
	seen := make(map[string]bool)
	empty := 0

	log.Printf("📋 Crawling %s listing (max %d pages, month %q)...", c.Name(), maxPages, c.month.String())

	for n := 1; n <= maxPages; n++ {
		if ctx.Err() != nil {
			log.Printf("⚠️ Listing crawl interrupted: %v", ctx.Err())
			break
		}

		pageStubs, err := c.fetchPage(ctx, n)
		if err != nil {
			log.Printf("   ⚠️ Page %d failed: %v", n, err)
		}

		added := 0
		for _, s := range pageStubs {
			if seen[s.URL] {
				continue
			}
			seen[s.URL] = true
			stubs = append(stubs, s)
			added++
		}
		log.Printf("   📄 Page %d: %d accepted, %d new", n, len(pageStubs), added)

		if len(pageStubs) == 0 {
			empty++
			if empty >= maxEmptyPages {
				log.Printf("   🛑 %d empty pages in a row, stopping", empty)
				break
			}
		} else {
			empty = 0
		}

		if n < maxPages {
			if err := c.sleep(ctx, c.cfg.Crawl.PageDelay); err != nil {
				break
			}
		}
	}

	log.Printf("✅ Found %d recruitment postings", len(stubs))
	return stubs
}

func (c *ListingCrawler) fetchPage(ctx context.Context, n int) ([]models.PostingStub, error) {
	pageURL := c.PageURL(n)
	page, err := c.renderer.Render(ctx, pageURL, browser.RenderOptions{
		Timeout: c.cfg.Crawl.ListTimeout,
		Settle:  c.cfg.Crawl.Settle,
		Scroll:  true,
	})
	if err != nil {
		return nil, err
	}
	if page.URL != "" {
		pageURL = page.URL
	}
	return c.parseListing(pageURL, page.HTML)
}

// parseListing returns the accepted stubs of one rendered listing page in
// document order. Duplicates within the page are kept; the caller dedups.
func (c *ListingCrawler) parseListing(pageURL, html string) ([]models.PostingStub, error) {
	doc, err := scraper.ParseHTML(html)
	if err != nil {
		return nil, fmt.Errorf("parse listing: %w", err)
	}
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("parse page url: %w", err)
	}

	var stubs []models.PostingStub
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		link, ok := scraper.ResolveURL(base, href)
		if !ok || !isItemLink(link) {
			return
		}

		title := textutil.CleanText(a.Text())
		if textutil.RuneLen(title) <= minTitleLen {
			return
		}
		title = textutil.Truncate(title, maxTitleLen)

		itemText := textutil.Truncate(textutil.CleanText(a.Closest(`li, .item, [class*="item"]`).Text()), maxContextLen)
		if !c.month.Match(title, itemText) {
			return
		}
		if !c.classifier.Accept(title) {
			return
		}

		stubs = append(stubs, models.PostingStub{
			Title:    title,
			URL:      link,
			DateHint: scraper.FirstText(a.Parent(), dateSelectors),
		})
	})
	return stubs, nil
}

func isItemLink(link string) bool {
	u, err := url.Parse(link)
	if err != nil {
		return false
	}
	for _, m := range itemPathMarkers {
		if strings.Contains(u.Path, m) {
			return true
		}
	}
	return false
}
