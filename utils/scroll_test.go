package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRandomDelayBounds(t *testing.T) {
	start := time.Now()
	RandomDelay(5, 10)
	elapsed := time.Since(start)
	assert.GreaterOrEqual(t, elapsed, 5*time.Millisecond)
	assert.Less(t, elapsed, time.Second)
}

func TestNewScreenShotDebuggerDisabled(t *testing.T) {
	d := NewScreenShotDebugger("")
	assert.Nil(t, d)
	assert.NoError(t, d.CaptureAndLog(nil, "x", "nothing happens"))
}

func TestNewScreenShotDebuggerCreatesDir(t *testing.T) {
	dir := t.TempDir() + "/shots"
	d := NewScreenShotDebugger(dir)
	assert.NotNil(t, d)
	assert.DirExists(t, dir)
}
