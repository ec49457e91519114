package telegram

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-gongkao-sync/internal/config"
)

func TestEscapeMarkdown(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain 中文", "plain 中文"},
		{"2026-01-05", "2026\\-01\\-05"},
		{"a_b*c", "a\\_b\\*c"},
		{"(1.5s)!", "\\(1\\.5s\\)\\!"},
		{`back\slash`, `back\\slash`},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, escapeMarkdown(tt.in))
		})
	}
}

func TestFormatSummary(t *testing.T) {
	s := Summary{
		RunID:    "ab12-cd",
		Command:  "run",
		Scraped:  3,
		Details:  3,
		Created:  1,
		Skipped:  2,
		Failed:   0,
		Duration: 90*time.Second + 400*time.Millisecond,
		New:      []CreatedPosting{{Title: "2026年南京市XX局公开招聘公告(第1批)", URL: "https://x.com/article/1"}},
	}

	text := formatSummary(s)

	assert.Contains(t, text, "🆔 ab12\\-cd")
	assert.Contains(t, text, "🔍 Scraped: 3, details: 3")
	assert.Contains(t, text, "✅ Created: 1")
	assert.Contains(t, text, "⏭️ Skipped: 2")
	assert.Contains(t, text, "⏱️ 1m30s")
	assert.Contains(t, text, "🔗 [2026年南京市XX局公开招聘公告\\(第1批\\)](https://x.com/article/1)")
}

func TestFormatSummaryCapsList(t *testing.T) {
	s := Summary{Command: "sync"}
	for i := 0; i < 13; i++ {
		s.New = append(s.New, CreatedPosting{Title: fmt.Sprintf("t%d", i), URL: "https://x.com"})
	}

	text := formatSummary(s)

	assert.Equal(t, maxListedPostings, strings.Count(text, "🔗"))
	assert.Contains(t, text, "\\.\\.\\. and 3 more")
	assert.NotContains(t, text, "Scraped")
}

func TestDisabledBotIsNoop(t *testing.T) {
	bot, err := FromConfig(config.TelegramConfig{})
	require.NoError(t, err)
	assert.Nil(t, bot)

	assert.NoError(t, bot.SendSummary(Summary{}))
	assert.NoError(t, bot.SendStatus("hi"))
	assert.NoError(t, bot.SendError(errors.New("boom")))
}
