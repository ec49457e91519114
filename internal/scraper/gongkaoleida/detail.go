package gongkaoleida

import (
	"context"
	"fmt"

	"go-gongkao-sync/internal/browser"
	"go-gongkao-sync/internal/config"
	"go-gongkao-sync/internal/models"
	"go-gongkao-sync/internal/scraper"
	"go-gongkao-sync/internal/textutil"
)

const (
	minContentLen = 100
	maxContentLen = 8000
	maxDateLen    = 100
)

// contentSelectors is tried in order; the first region with more than
// minContentLen characters of text wins.
var contentSelectors = []string{
	".article-content",
	".detail-content",
	".content-wrap",
	".post-content",
	".news-content",
	".main-content",
	"#article-content",
	"#content",
	"article",
	".content",
	".main",
	`[class*="content"]`,
	`[class*="article"]`,
	`[class*="detail"]`,
}

// chromeSelectors are stripped from the body in the fallback path.
const chromeSelectors = "nav, header, footer, .nav, .header, .footer, .sidebar, script, style"

var detailDateSelectors = []string{
	".date", ".time", ".publish-time", ".post-date", `[class*="date"]`, `[class*="time"]`,
}

type DetailFetcher struct {
	cfg      *config.Config
	renderer browser.Renderer
}

func NewDetailFetcher(cfg *config.Config, r browser.Renderer) *DetailFetcher {
	return &DetailFetcher{cfg: cfg, renderer: r}
}

func (f *DetailFetcher) FetchDetail(ctx context.Context, url string) models.PostingDetail {
	detail := models.PostingDetail{URL: url}

	page, err := f.renderer.Render(ctx, url, browser.RenderOptions{
		Timeout: f.cfg.Crawl.DetailTimeout,
		Settle:  f.cfg.Crawl.Settle,
	})
	if err != nil {
		detail.Error = err.Error()
		return detail
	}
	detail.Title = textutil.CleanText(page.Title)

	content, dateText, err := extractDetail(page.HTML)
	if err != nil {
		detail.Error = err.Error()
		return detail
	}
	detail.Content = content
	detail.DateText = dateText
	return detail
}

func extractDetail(html string) (content, dateText string, err error) {
	doc, err := scraper.ParseHTML(html)
	if err != nil {
		return "", "", fmt.Errorf("parse detail: %w", err)
	}

	dateText = textutil.Truncate(scraper.FirstText(doc.Selection, detailDateSelectors), maxDateLen)

	for _, sel := range contentSelectors {
		region := doc.Find(sel).First()
		if region.Length() == 0 {
			continue
		}
		if text := scraper.VisibleText(region); textutil.RuneLen(text) > minContentLen {
			return textutil.Truncate(text, maxContentLen), dateText, nil
		}
	}

	body := doc.Find("body").Clone()
	body.Find(chromeSelectors).Remove()
	return textutil.Truncate(scraper.VisibleText(body), maxContentLen), dateText, nil
}
