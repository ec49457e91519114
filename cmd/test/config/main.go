package main

import (
	"flag"
	"fmt"

	"go-gongkao-sync/internal/config"
)

func main() {
	configPath := flag.String("config", config.DefaultPath, "Path to config file")
	flag.Parse()

	fmt.Println("🔧 Testing config loading...")
	cfg, err := config.LoadFrom(*configPath)
	if err != nil {
		fmt.Printf("❌ %v\n", err)
		return
	}
	fmt.Printf("✅ Config loaded successfully!\n")
	fmt.Printf("   Listing: %s (region %s)\n", cfg.Site.BaseURL, cfg.Site.RegionCode)
	fmt.Printf("   Max pages: %d, target month: %q\n", cfg.Crawl.MaxPages, cfg.Crawl.TargetMonth)
	fmt.Printf("   Notion token: %s\n", mask(cfg.Notion.Token))
	fmt.Printf("   Notion database: %q / %q\n", cfg.Notion.DatabaseID, cfg.Notion.DatabaseName)
	fmt.Printf("   Telegram enabled: %v\n", cfg.Telegram.Enabled())
	if err := cfg.ValidateRemote(); err != nil {
		fmt.Printf("⚠️ Sync not possible: %v\n", err)
	}
}

func mask(s string) string {
	if len(s) <= 10 {
		return "<unset>"
	}
	return s[:10] + "..."
}
