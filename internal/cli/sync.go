// Package cli implements the command line interface.
package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/mrlokans/kobo2notion/internal/config"
	"github.com/mrlokans/kobo2notion/internal/database"
	"github.com/mrlokans/kobo2notion/internal/kobo"
	"github.com/mrlokans/kobo2notion/internal/notion"
	"github.com/mrlokans/kobo2notion/internal/settingsstore"
	"github.com/mrlokans/kobo2notion/internal/syncer"
)

// SyncCommand runs one sync pass from the device database to Notion.
type SyncCommand struct {
	ConfigFile string
	Full       bool
}

func (c *SyncCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("sync", flag.ExitOnError)
	fs.StringVar(&c.ConfigFile, "config", "", "Path to YAML config file (optional)")
	fs.BoolVar(&c.Full, "full", false, "Ignore the stored delta and sync every annotation")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: kobo2notion sync [options]\n\n")
		fmt.Fprintf(os.Stderr, "Sync Kobo annotations to Notion.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}
	return fs.Parse(args)
}

func (c *SyncCommand) Run() error {
	cfg, err := config.NewConfig(c.ConfigFile)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	db, err := database.NewDatabase(cfg.Sync.StatePath)
	if err != nil {
		return fmt.Errorf("failed to open state database: %w", err)
	}
	defer db.Close()

	store := settingsstore.New(db)
	reader := kobo.NewReader(cfg.Kobo.DatabasePath, cfg.Kobo.CachePath)
	client := notion.NewClient(cfg.Notion.Token)

	engine := syncer.New(reader, client, store, db, syncer.Options{
		ParentPageID: cfg.Notion.ParentPageID,
		Icon:         cfg.Notion.Icon,
		Full:         c.Full,
	})

	result, err := engine.Run(context.Background())
	if err != nil {
		if statusErr := store.SetSyncStatus("failed", err.Error(), 0); statusErr != nil {
			fmt.Printf("⚠️  Failed to record sync status: %v\n", statusErr)
		}
		return err
	}

	message := fmt.Sprintf("%d books, %d annotations", result.BooksSynced, result.AnnotationsSynced)
	if err := store.SetSyncStatus(result.Status, message, result.AnnotationsSynced); err != nil {
		fmt.Printf("⚠️  Failed to record sync status: %v\n", err)
	}

	fmt.Printf("📚 Books synced: %d\n", result.BooksSynced)
	fmt.Printf("✏️  Annotations synced: %d\n", result.AnnotationsSynced)

	if result.Status == syncer.StatusPartiallyFailed {
		fmt.Printf("⚠️  Books failed: %d\n", result.BooksFailed)
		for _, failure := range result.Failures {
			fmt.Printf("   - %s: %v\n", failure.Title, failure.Err)
		}
		return fmt.Errorf("%d books failed to sync", result.BooksFailed)
	}

	fmt.Println("✅ Sync completed")
	return nil
}
