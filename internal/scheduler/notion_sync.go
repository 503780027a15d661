// Package scheduler runs the sync engine on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mrlokans/kobo2notion/internal/settingsstore"
	"github.com/mrlokans/kobo2notion/internal/syncer"
)

const syncTimeout = 10 * time.Minute

// Runner executes one sync pass.
type Runner interface {
	Run(ctx context.Context) (syncer.Result, error)
}

type SyncScheduler struct {
	settingsStore *settingsstore.SettingsStore
	runner        Runner
	cron          *cron.Cron
	entryID       cron.EntryID
	mu            sync.Mutex
	isRunning     bool
	isSyncing     bool
	cancelFunc    context.CancelFunc
}

func New(settingsStore *settingsstore.SettingsStore, runner Runner) *SyncScheduler {
	return &SyncScheduler{
		settingsStore: settingsStore,
		runner:        runner,
		cron:          cron.New(),
	}
}

// Start registers the sync job with the configured schedule and starts the
// cron loop. Returns an error when the schedule is invalid.
func (s *SyncScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}

	schedule := s.settingsStore.GetSyncSchedule()
	if err := settingsstore.ValidateCronSchedule(schedule); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	s.cancelFunc = cancel

	entryID, err := s.cron.AddFunc(schedule, func() {
		s.runSync(ctx)
	})
	if err != nil {
		cancel()
		return fmt.Errorf("failed to schedule sync: %w", err)
	}
	s.entryID = entryID

	s.cron.Start()
	s.isRunning = true

	if next, err := settingsstore.GetNextRunTime(schedule); err == nil {
		log.Printf("Sync scheduled %s, next run at %s",
			settingsstore.GetCronDescription(schedule), next.Format(time.RFC3339))
	}
	return nil
}

// Stop halts the cron loop and cancels any in-flight sync.
func (s *SyncScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	if s.cancelFunc != nil {
		s.cancelFunc()
	}
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	s.isRunning = false
	log.Printf("Sync scheduler stopped")
}

// RunNow triggers a sync immediately, outside the schedule.
func (s *SyncScheduler) RunNow(ctx context.Context) {
	s.runSync(ctx)
}

func (s *SyncScheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isRunning
}

func (s *SyncScheduler) IsSyncing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isSyncing
}

// GetNextRunTime returns when the next scheduled sync fires, or zero when
// the scheduler is not running.
func (s *SyncScheduler) GetNextRunTime() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return time.Time{}
	}
	return s.cron.Entry(s.entryID).Next
}

func (s *SyncScheduler) runSync(ctx context.Context) {
	s.mu.Lock()
	if s.isSyncing {
		s.mu.Unlock()
		log.Printf("Sync already in progress, skipping scheduled run")
		return
	}
	s.isSyncing = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.isSyncing = false
		s.mu.Unlock()
	}()

	ctx, cancel := context.WithTimeout(ctx, syncTimeout)
	defer cancel()

	start := time.Now()
	result, err := s.runner.Run(ctx)
	duration := time.Since(start).Round(time.Second)

	if err != nil {
		log.Printf("Scheduled sync failed: %v", err)
		if statusErr := s.settingsStore.SetSyncStatus("failed", err.Error(), 0); statusErr != nil {
			log.Printf("Failed to record sync status: %v", statusErr)
		}
		return
	}

	message := fmt.Sprintf("%d books, %d annotations in %s",
		result.BooksSynced, result.AnnotationsSynced, duration)
	if err := s.settingsStore.SetSyncStatus(result.Status, message, result.AnnotationsSynced); err != nil {
		log.Printf("Failed to record sync status: %v", err)
	}
}
