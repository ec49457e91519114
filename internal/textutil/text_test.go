package textutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanText(t *testing.T) {
	assert.Equal(t, "a b c", CleanText("  a  b\n\tc  "))
	assert.Equal(t, "招聘 公告", CleanText("招聘　公告"))
	assert.Equal(t, "", CleanText(" \n "))
}

func TestCleanLines(t *testing.T) {
	assert.Equal(t, "第一段\n第二 段", CleanLines("  第一段 \n\n   \n第二   段\n"))
}

func TestTruncateIsRuneSafe(t *testing.T) {
	assert.Equal(t, "南京", Truncate("南京市招聘", 2))
	assert.Equal(t, "abc", Truncate("abc", 10))
	assert.Equal(t, "", Truncate("abc", 0))
}

func TestEllipsize(t *testing.T) {
	assert.Equal(t, "short", Ellipsize("short", 10))
	assert.Equal(t, "南京市...", Ellipsize("南京市事业单位招聘", 6))
	assert.Equal(t, 2000, RuneLen(Ellipsize(string(make([]rune, 2500)), 2000)))
}
