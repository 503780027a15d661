package cli

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/mrlokans/kobo2notion/internal/config"
	"github.com/mrlokans/kobo2notion/internal/database"
	"github.com/mrlokans/kobo2notion/internal/settingsstore"
)

// StatusCommand prints the outcome of the last sync run.
type StatusCommand struct {
	ConfigFile string
}

func (c *StatusCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	fs.StringVar(&c.ConfigFile, "config", "", "Path to YAML config file (optional)")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: kobo2notion status [options]\n\n")
		fmt.Fprintf(os.Stderr, "Show the outcome of the last sync run.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}
	return fs.Parse(args)
}

func (c *StatusCommand) Run() error {
	cfg, err := config.NewConfig(c.ConfigFile)
	if err != nil {
		return err
	}

	db, err := database.NewDatabase(cfg.Sync.StatePath)
	if err != nil {
		return fmt.Errorf("failed to open state database: %w", err)
	}
	defer db.Close()

	store := settingsstore.New(db)

	status, err := store.GetSyncStatus()
	if err != nil {
		return fmt.Errorf("failed to load sync status: %w", err)
	}

	if status.LastSyncAt == nil {
		fmt.Println("📭 No sync has run yet")
	} else {
		fmt.Printf("🕐 Last sync: %s\n", status.LastSyncAt.Local().Format(time.RFC3339))
		fmt.Printf("📊 Status: %s\n", status.Status)
		if status.Message != "" {
			fmt.Printf("💬 %s\n", status.Message)
		}
	}

	delta, err := store.GetSyncDelta()
	if err != nil {
		return fmt.Errorf("failed to load sync delta: %w", err)
	}
	if delta != nil {
		fmt.Printf("⏱️  Synced up to: %s\n", delta.Local().Format(time.RFC3339))
	}

	count, err := db.CountPageLinks()
	if err != nil {
		return fmt.Errorf("failed to count linked books: %w", err)
	}
	fmt.Printf("📚 Books linked to Notion pages: %d\n", count)

	return nil
}
