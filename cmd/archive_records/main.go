// archive_records archives every remote record whose URL appears in a
// postings file, e.g. to redo a bad collection run.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
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
		dryRun       = flag.Bool("dry-run", false, "Only print what would be archived")
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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := notion.NewClient(cfg.Notion)
	db, err := client.ResolveDatabase(ctx, cfg.Notion.DatabaseID, cfg.Notion.DatabaseName)
	if err != nil {
		log.Fatalf("❌ Remote database unavailable: %v", err)
	}

	archived, notFound, failed := 0, 0, 0
	seen := make(map[string]bool)
	for _, p := range postings {
		if p.OriginalURL == "" || seen[p.OriginalURL] {
			continue
		}
		seen[p.OriginalURL] = true

		pages, err := client.QueryAll(ctx, db.ID, notion.URLEquals(p.OriginalURL))
		if err != nil {
			log.Printf("   ⚠️ Query %s failed: %v", p.OriginalURL, err)
			failed++
			continue
		}
		if len(pages) == 0 {
			notFound++
			continue
		}
		for _, page := range pages {
			if *dryRun {
				log.Printf("   🗑️ [dry-run] %s (%s)", p.PositionTitle, page.ID)
				archived++
				continue
			}
			if err := client.ArchivePage(ctx, page.ID); err != nil {
				log.Printf("   ⚠️ Archive %s failed: %v", page.ID, err)
				failed++
				continue
			}
			log.Printf("   🗑️ %s", p.PositionTitle)
			archived++
		}
	}

	log.Printf("📊 Done: archived=%d not-found=%d failed=%d dry-run=%v", archived, notFound, failed, *dryRun)
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
