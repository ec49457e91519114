package browser

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/playwright-community/playwright-go"

	"go-gongkao-sync/utils"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

type Options struct {
	Headless      bool
	UserAgent     string
	ScreenshotDir string
}

// PlaywrightManager owns one browser process and renders every URL in a
// fresh BrowserContext that is closed right after the read.
type PlaywrightManager struct {
	pw       *playwright.Playwright
	browser  playwright.Browser
	opts     Options
	debugger *utils.ScreenShotDebugger
}

func NewPlaywright(opts Options) (*PlaywrightManager, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("could not start playwright: %w", err)
	}
	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
	})
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("could not launch browser: %w", err)
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}
	return &PlaywrightManager{
		pw:       pw,
		browser:  browser,
		opts:     opts,
		debugger: utils.NewScreenShotDebugger(opts.ScreenshotDir),
	}, nil
}

func (pm *PlaywrightManager) Render(ctx context.Context, url string, opts RenderOptions) (*Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	bctx, err := pm.browser.NewContext(playwright.BrowserNewContextOptions{
		UserAgent: playwright.String(pm.opts.UserAgent),
		Locale:    playwright.String("zh-CN"),
	})
	if err != nil {
		return nil, fmt.Errorf("new browser context: %w", err)
	}
	defer bctx.Close()

	page, err := bctx.NewPage()
	if err != nil {
		return nil, fmt.Errorf("new page: %w", err)
	}

	gotoOpts := playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
	}
	if opts.Timeout > 0 {
		gotoOpts.Timeout = playwright.Float(float64(opts.Timeout.Milliseconds()))
	}
	if _, err := page.Goto(url, gotoOpts); err != nil {
		pm.debugger.CaptureAndLog(page, "goto_failed", fmt.Sprintf("navigation to %s failed", url))
		return nil, fmt.Errorf("goto %s: %w", url, err)
	}

	if opts.Settle > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(opts.Settle):
		}
	}

	if opts.Scroll {
		if err := utils.SmoothScroll(page); err != nil {
			log.Printf("⚠️ Scroll failed on %s: %v", url, err)
		}
	}

	title, err := page.Title()
	if err != nil {
		return nil, fmt.Errorf("read title of %s: %w", url, err)
	}
	html, err := page.Content()
	if err != nil {
		pm.debugger.CaptureAndLog(page, "content_failed", fmt.Sprintf("reading %s failed", url))
		return nil, fmt.Errorf("read content of %s: %w", url, err)
	}

	return &Page{URL: page.URL(), Title: title, HTML: html}, nil
}

func (pm *PlaywrightManager) Close() error {
	if err := pm.browser.Close(); err != nil {
		pm.pw.Stop()
		return fmt.Errorf("close browser: %w", err)
	}
	return pm.pw.Stop()
}
