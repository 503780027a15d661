package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mrlokans/kobo2notion/internal/config"
	"github.com/mrlokans/kobo2notion/internal/database"
	"github.com/mrlokans/kobo2notion/internal/kobo"
	"github.com/mrlokans/kobo2notion/internal/notion"
	"github.com/mrlokans/kobo2notion/internal/scheduler"
	"github.com/mrlokans/kobo2notion/internal/settingsstore"
	"github.com/mrlokans/kobo2notion/internal/syncer"
)

// ScheduleCommand runs syncs on a cron schedule until interrupted.
type ScheduleCommand struct {
	ConfigFile string
	Schedule   string
}

func (c *ScheduleCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("schedule", flag.ExitOnError)
	fs.StringVar(&c.ConfigFile, "config", "", "Path to YAML config file (optional)")
	fs.StringVar(&c.Schedule, "schedule", "", "Cron schedule to persist, e.g. \"0 */6 * * *\" (optional)")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: kobo2notion schedule [options]\n\n")
		fmt.Fprintf(os.Stderr, "Run syncs on a cron schedule until interrupted.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}
	return fs.Parse(args)
}

func (c *ScheduleCommand) Run() error {
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

	if c.Schedule != "" {
		if err := settingsstore.ValidateCronSchedule(c.Schedule); err != nil {
			return err
		}
		if err := store.SetSyncSchedule(c.Schedule); err != nil {
			return fmt.Errorf("failed to save schedule: %w", err)
		}
	}

	reader := kobo.NewReader(cfg.Kobo.DatabasePath, cfg.Kobo.CachePath)
	client := notion.NewClient(cfg.Notion.Token)
	engine := syncer.New(reader, client, store, db, syncer.Options{
		ParentPageID: cfg.Notion.ParentPageID,
		Icon:         cfg.Notion.Icon,
	})

	sched := scheduler.New(store, engine)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := sched.Start(ctx); err != nil {
		return err
	}

	if next := sched.GetNextRunTime(); !next.IsZero() {
		fmt.Printf("⏰ Next sync at %s, press Ctrl+C to stop\n", next.Local().Format(time.RFC3339))
	}

	<-ctx.Done()
	fmt.Println("\n👋 Shutting down")
	sched.Stop()
	return nil
}
