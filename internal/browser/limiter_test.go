package browser

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHostLimiterPerHost(t *testing.T) {
	hl := NewHostLimiter(1, 1)
	ctx := context.Background()

	require.NoError(t, hl.WaitURL(ctx, "https://a.example.com/x"))
	// A different host has its own bucket.
	start := time.Now()
	require.NoError(t, hl.WaitURL(ctx, "https://b.example.com/y"))
	assert.Less(t, time.Since(start), 200*time.Millisecond)

	// Same host again has to wait for the next token.
	ctx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()
	assert.Error(t, hl.WaitURL(ctx, "https://a.example.com/z"))
}

func TestHostLimiterDisabled(t *testing.T) {
	hl := NewHostLimiter(0, 0)
	ctx := context.Background()
	for i := 0; i < 100; i++ {
		require.NoError(t, hl.WaitURL(ctx, "https://a.example.com/"))
	}
}

func TestHostLimiterNil(t *testing.T) {
	var hl *HostLimiter
	assert.NoError(t, hl.WaitURL(context.Background(), "https://a.example.com/"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, hl.WaitURL(ctx, "https://a.example.com/"), context.Canceled)
}
