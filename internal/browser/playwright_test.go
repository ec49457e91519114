package browser

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupManager(t *testing.T) *PlaywrightManager {
	if testing.Short() {
		t.Skip("Skipping browser integration test in short mode")
	}
	pm, err := NewPlaywright(Options{Headless: true})
	if err != nil {
		t.Skipf("playwright not available: %v", err)
	}
	t.Cleanup(func() { pm.Close() })
	return pm
}

func TestPlaywrightRender(t *testing.T) {
	pm := setupManager(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, `<html><head><title>招聘公告</title></head><body>
<div id="app"></div>
<script>document.getElementById("app").innerHTML = '<a href="/article/1">rendered</a>';</script>
</body></html>`)
	}))
	defer srv.Close()

	page, err := pm.Render(context.Background(), srv.URL, RenderOptions{
		Timeout: 10 * time.Second,
		Settle:  100 * time.Millisecond,
	})
	require.NoError(t, err)
	assert.Equal(t, "招聘公告", page.Title)
	assert.Contains(t, page.HTML, `href="/article/1"`)
}

func TestPlaywrightRenderFreshContext(t *testing.T) {
	pm := setupManager(t)

	var (
		mu      sync.Mutex
		cookies []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		mu.Lock()
		cookies = append(cookies, r.Header.Get("Cookie"))
		mu.Unlock()
		http.SetCookie(w, &http.Cookie{Name: "session", Value: "1"})
		fmt.Fprint(w, `<html><body>ok</body></html>`)
	}))
	defer srv.Close()

	for i := 0; i < 2; i++ {
		_, err := pm.Render(context.Background(), srv.URL, RenderOptions{Timeout: 10 * time.Second})
		require.NoError(t, err)
	}
	mu.Lock()
	defer mu.Unlock()
	require.Len(t, cookies, 2)
	assert.Empty(t, cookies[1], "cookies must not leak between renders")
}

func TestPlaywrightRenderCancelled(t *testing.T) {
	pm := setupManager(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := pm.Render(ctx, "http://127.0.0.1:1/", RenderOptions{})
	assert.ErrorIs(t, err, context.Canceled)
}
