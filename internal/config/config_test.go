package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{
		"NOTION_TOKEN", "NOTION_DATABASE_ID", "COLLECT_DATE", "DATA_DIR",
		"MAX_PAGES", "TELEGRAM_BOT_TOKEN", "TELEGRAM_CHAT_ID",
	} {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadFromYAML(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
crawl:
  max_pages: 8
  target_month: "2026-01"
  detail_timeout: "45s"
  exclude_keywords: ["成绩"]
notion:
  database_id: "db-1"
  dedup_by_title: false
`)

	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, 8, cfg.Crawl.MaxPages)
	assert.Equal(t, "2026-01", cfg.Crawl.TargetMonth)
	assert.Equal(t, 45*time.Second, cfg.Crawl.DetailTimeout)
	assert.Equal(t, []string{"成绩"}, cfg.Crawl.ExcludeKeywords)
	assert.Nil(t, cfg.Crawl.IncludeKeywords)
	assert.Equal(t, "db-1", cfg.Notion.DatabaseID)
	assert.False(t, cfg.Notion.TitleDedup())

	// untouched keys get defaults
	assert.Equal(t, 60*time.Second, cfg.Crawl.ListTimeout)
	assert.Equal(t, "2022-06-28", cfg.Notion.Version)
	assert.Equal(t, 3, cfg.Notion.MaxAttempts)
	assert.Equal(t, "data", cfg.Paths.DataDir)
}

func TestLoadFromEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("NOTION_TOKEN", "secret")
	t.Setenv("MAX_PAGES", "2")
	t.Setenv("COLLECT_DATE", "2025-12")
	t.Setenv("DATA_DIR", "/tmp/gk")
	t.Setenv("TELEGRAM_BOT_TOKEN", "bot")
	t.Setenv("TELEGRAM_CHAT_ID", "42")

	path := writeConfig(t, "crawl:\n  max_pages: 9\n")
	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, "secret", cfg.Notion.Token)
	assert.Equal(t, 2, cfg.Crawl.MaxPages)
	assert.Equal(t, "2025-12", cfg.Crawl.TargetMonth)
	assert.Equal(t, "/tmp/gk", cfg.Paths.DataDir)
	assert.True(t, cfg.Telegram.Enabled())
	assert.Equal(t, int64(42), cfg.Telegram.ChatID)
	assert.NoError(t, cfg.ValidateRemote())
}

func TestLoadFromMissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.True(t, cfg.Notion.TitleDedup())
	assert.False(t, cfg.Telegram.Enabled())
}

func TestLoadFromErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		yaml string
	}{
		{name: "bad yaml", yaml: "crawl: [\n"},
		{name: "bad MAX_PAGES", env: map[string]string{"MAX_PAGES": "many"}},
		{name: "bad chat id", env: map[string]string{"TELEGRAM_CHAT_ID": "abc"}},
		{name: "bad target month", yaml: "crawl:\n  target_month: \"2026年1月\"\n"},
		{name: "negative pages", yaml: "crawl:\n  max_pages: -1\n"},
		{name: "relative base url", yaml: "site:\n  base_url: \"/area\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := LoadFrom(writeConfig(t, tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestValidateRemote(t *testing.T) {
	cfg := Default()
	assert.Error(t, cfg.ValidateRemote(), "token is required")

	cfg.Notion.Token = "secret"
	assert.NoError(t, cfg.ValidateRemote())

	cfg.Notion.DatabaseName = ""
	assert.Error(t, cfg.ValidateRemote())
	cfg.Notion.DatabaseID = "db-1"
	assert.NoError(t, cfg.ValidateRemote())
}
