// backfill_titles fills the title of remote records that have a URL but no
// title, taking the title from a postings file.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"

	"go-gongkao-sync/internal/config"
	"go-gongkao-sync/internal/models"
	"go-gongkao-sync/internal/notion"
	"go-gongkao-sync/internal/state"
)

func main() {
	var (
		configPath   = flag.String("config", config.DefaultPath, "Path to config.yaml")
		postingsPath = flag.String("postings", "", "Postings file (default: latest in data dir)")
		dryRun       = flag.Bool("dry-run", false, "Only print what would change")
		limit        = flag.Int("limit", 0, "Update at most N records (0 = all)")
	)
	flag.Parse()
	log.SetPrefix("[" + uuid.NewString()[:8] + "] ")

	cfg, err := config.LoadFrom(*configPath)
	if err != nil {
		log.Fatalf("❌ Config error: %v", err)
	}
	if err := cfg.ValidateRemote(); err != nil {
		log.Fatalf("❌ %v", err)
	}

	postings, err := loadPostings(cfg, *postingsPath)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	titles := titlesByURL(postings)
	log.Printf("📂 %d titles available from postings", len(titles))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := notion.NewClient(cfg.Notion)
	db, err := client.ResolveDatabase(ctx, cfg.Notion.DatabaseID, cfg.Notion.DatabaseName)
	if err != nil {
		log.Fatalf("❌ Remote database unavailable: %v", err)
	}

	pages, err := client.QueryAll(ctx, db.ID, notion.EmptyTitleWithURL())
	if err != nil {
		log.Fatalf("❌ Query failed: %v", err)
	}
	log.Printf("🔍 %d records without a title", len(pages))

	updated, missing, failed := 0, 0, 0
	for _, p := range pages {
		if *limit > 0 && updated >= *limit {
			break
		}
		url := notion.PageURL(p)
		title, ok := titles[url]
		if !ok {
			missing++
			continue
		}
		if *dryRun {
			log.Printf("   📝 [dry-run] %s -> %s", url, title)
			updated++
			continue
		}
		if _, err := client.UpdatePage(ctx, p.ID, notion.TitleProperties(title)); err != nil {
			log.Printf("   ⚠️ Update %s failed: %v", p.ID, err)
			failed++
			continue
		}
		log.Printf("   ✅ %s", title)
		updated++
	}

	log.Printf("📊 Done: updated=%d no-title-known=%d failed=%d dry-run=%v", updated, missing, failed, *dryRun)
}

func loadPostings(cfg *config.Config, path string) ([]models.JobPosting, error) {
	if path != "" {
		return state.LoadPostings(path)
	}
	store, err := state.NewStore(cfg.Paths.DataDir)
	if err != nil {
		return nil, err
	}
	postings, latest, err := store.LatestPostings()
	if err != nil {
		return nil, err
	}
	log.Printf("📂 Using %s", latest)
	return postings, nil
}

// titlesByURL keeps the first non-empty title per URL.
func titlesByURL(postings []models.JobPosting) map[string]string {
	m := make(map[string]string, len(postings))
	for _, p := range postings {
		title := strings.TrimSpace(p.PositionTitle)
		if title == "" || p.OriginalURL == "" {
			continue
		}
		if _, ok := m[p.OriginalURL]; !ok {
			m[p.OriginalURL] = title
		}
	}
	return m
}
