package utils

import (
	"math/rand"
	"time"

	"github.com/playwright-community/playwright-go"
)

// RandomDelay pauses execution for a random time between min and max (milliseconds)
func RandomDelay(min, max int) {
	if min >= max {
		time.Sleep(time.Duration(min) * time.Millisecond)
		return
	}
	duration := time.Duration(rand.Intn(max-min)+min) * time.Millisecond
	time.Sleep(duration)
}

// SmoothScroll scrolls the page in steps and ends at the bottom so
// lazy-loaded list items get rendered.
func SmoothScroll(page playwright.Page) error {
	if err := page.Mouse().Wheel(0, 500); err != nil {
		return err
	}
	RandomDelay(300, 600)

	if err := page.Mouse().Wheel(0, -200); err != nil {
		return err
	}
	RandomDelay(200, 400)

	_, err := page.Evaluate("window.scrollTo(0, document.body.scrollHeight)")
	return err
}
