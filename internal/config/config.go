// Load envs from .env
// Load YAML config
// Override with env vars
// Provide default values
// Validate config

package config

import (
	"errors"
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const DefaultPath = "configs/config.yaml"

type Config struct {
	Site     SiteConfig     `yaml:"site"`
	Crawl    CrawlConfig    `yaml:"crawl"`
	Notion   NotionConfig   `yaml:"notion"`
	Paths    PathsConfig    `yaml:"paths"`
	Telegram TelegramConfig `yaml:"telegram"`
}

type SiteConfig struct {
	BaseURL    string `yaml:"base_url"`
	RegionCode string `yaml:"region_code"`
	SourceName string `yaml:"source_name"`
}

type CrawlConfig struct {
	MaxPages    int    `yaml:"max_pages" env:"MAX_PAGES"`
	TargetMonth string `yaml:"target_month" env:"COLLECT_DATE"`
	//Timing
	PageDelay     time.Duration `yaml:"page_delay"`
	ListTimeout   time.Duration `yaml:"list_timeout"`
	DetailTimeout time.Duration `yaml:"detail_timeout"`
	Settle        time.Duration `yaml:"settle"`
	//Politeness
	DetailConcurrency int     `yaml:"detail_concurrency"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	UserAgent         string  `yaml:"user_agent"`
	Headful           bool    `yaml:"headful"`
	//Title classifier, nil means built-in lists
	IncludeKeywords []string `yaml:"include_keywords"`
	ExcludeKeywords []string `yaml:"exclude_keywords"`
}

type NotionConfig struct {
	APIURL         string        `yaml:"api_url"`
	Version        string        `yaml:"version"`
	Token          string        `yaml:"token" env:"NOTION_TOKEN"`
	DatabaseID     string        `yaml:"database_id" env:"NOTION_DATABASE_ID"`
	DatabaseName   string        `yaml:"database_name"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	MaxAttempts    int           `yaml:"max_attempts"`
	DedupByTitle   *bool         `yaml:"dedup_by_title"`
}

// TitleDedup reports whether titles are used as a secondary dedup key.
func (n NotionConfig) TitleDedup() bool {
	return n.DedupByTitle == nil || *n.DedupByTitle
}

type PathsConfig struct {
	DataDir       string `yaml:"data_dir" env:"DATA_DIR"`
	ScreenshotDir string `yaml:"screenshot_dir"`
}

type TelegramConfig struct {
	Token  string `yaml:"token" env:"TELEGRAM_BOT_TOKEN"`
	ChatID int64  `yaml:"chat_id" env:"TELEGRAM_CHAT_ID"`
}

// Enabled is true when both token and chat id are set.
func (t TelegramConfig) Enabled() bool {
	return t.Token != "" && t.ChatID != 0
}

// Default returns a config with every default applied and nothing loaded.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads the default config file and exits the process on error.
func Load() *Config {
	cfg, err := LoadFrom(DefaultPath)
	if err != nil {
		log.Fatalf("❌ Config error: %v", err)
	}
	return cfg
}

// LoadFrom loads .env, then the yaml file at path (missing file is only a
// warning), then env overrides, then defaults, and validates the result.
func LoadFrom(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("Warning: Could not read %s: %v", path, err)
	} else {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (cfg *Config) applyEnv() error {
	if v := os.Getenv("NOTION_TOKEN"); v != "" {
		cfg.Notion.Token = v
	}
	if v := os.Getenv("NOTION_DATABASE_ID"); v != "" {
		cfg.Notion.DatabaseID = v
	}
	if v := os.Getenv("COLLECT_DATE"); v != "" {
		cfg.Crawl.TargetMonth = v
	}
	if v := os.Getenv("DATA_DIR"); v != "" {
		cfg.Paths.DataDir = v
	}
	if v := os.Getenv("MAX_PAGES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid MAX_PAGES %q: %w", v, err)
		}
		cfg.Crawl.MaxPages = n
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.Token = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid TELEGRAM_CHAT_ID: %w", err)
		}
		cfg.Telegram.ChatID = id
	}
	return nil
}

func (cfg *Config) applyDefaults() {
	if cfg.Site.BaseURL == "" {
		cfg.Site.BaseURL = "https://www.gongkaoleida.com"
	}
	if cfg.Site.RegionCode == "" {
		cfg.Site.RegionCode = "878-0-0-0-124"
	}
	if cfg.Site.SourceName == "" {
		cfg.Site.SourceName = "公考雷达"
	}

	c := &cfg.Crawl
	if c.MaxPages == 0 {
		c.MaxPages = 5
	}
	if c.PageDelay == 0 {
		c.PageDelay = time.Second
	}
	if c.ListTimeout == 0 {
		c.ListTimeout = 60 * time.Second
	}
	if c.DetailTimeout == 0 {
		c.DetailTimeout = 30 * time.Second
	}
	if c.Settle == 0 {
		c.Settle = 3 * time.Second
	}
	if c.DetailConcurrency == 0 {
		c.DetailConcurrency = 1
	}
	if c.RequestsPerSecond == 0 {
		c.RequestsPerSecond = 0.5
	}

	n := &cfg.Notion
	if n.APIURL == "" {
		n.APIURL = "https://api.notion.com/v1"
	}
	if n.Version == "" {
		n.Version = "2022-06-28"
	}
	if n.DatabaseName == "" {
		n.DatabaseName = "📋 招聘信息库"
	}
	if n.RequestTimeout == 0 {
		n.RequestTimeout = 30 * time.Second
	}
	if n.MaxAttempts == 0 {
		n.MaxAttempts = 3
	}

	if cfg.Paths.DataDir == "" {
		cfg.Paths.DataDir = "data"
	}
}

// Validate checks everything a local stage needs.
func (cfg *Config) Validate() error {
	u, err := url.Parse(cfg.Site.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("site.base_url %q is not an absolute URL", cfg.Site.BaseURL)
	}
	if cfg.Crawl.MaxPages < 1 {
		return fmt.Errorf("crawl.max_pages must be >= 1, got %d", cfg.Crawl.MaxPages)
	}
	if cfg.Crawl.TargetMonth != "" {
		if _, err := time.Parse("2006-01", cfg.Crawl.TargetMonth); err != nil {
			return fmt.Errorf("crawl.target_month %q must be YYYY-MM", cfg.Crawl.TargetMonth)
		}
	}
	if cfg.Crawl.DetailConcurrency < 1 {
		return fmt.Errorf("crawl.detail_concurrency must be >= 1, got %d", cfg.Crawl.DetailConcurrency)
	}
	if cfg.Notion.MaxAttempts < 1 {
		return fmt.Errorf("notion.max_attempts must be >= 1, got %d", cfg.Notion.MaxAttempts)
	}
	return nil
}

// ValidateRemote checks what commands talking to the remote store need.
func (cfg *Config) ValidateRemote() error {
	if cfg.Notion.Token == "" {
		return errors.New("NOTION_TOKEN is required")
	}
	if cfg.Notion.DatabaseID == "" && cfg.Notion.DatabaseName == "" {
		return errors.New("either NOTION_DATABASE_ID or notion.database_name is required")
	}
	return nil
}
