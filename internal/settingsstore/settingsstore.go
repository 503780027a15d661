// Package settingsstore provides typed accessors over the raw settings
// table: the sync delta watermark, the sync schedule and last-run status.
package settingsstore

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/kobo2notion/internal/database"
	"github.com/mrlokans/kobo2notion/internal/entities"
)

const defaultSyncSchedule = "0 */6 * * *" // every 6 hours

type SettingsStore struct {
	db *database.Database
}

func New(db *database.Database) *SettingsStore {
	return &SettingsStore{db: db}
}

// SyncStatus describes the outcome of the most recent sync run.
type SyncStatus struct {
	LastSyncAt        *time.Time
	Status            string
	Message           string
	AnnotationsSynced int
}

// GetSyncDelta returns the watermark of the last successful sync, or nil
// when no sync has completed yet.
func (s *SettingsStore) GetSyncDelta() (*time.Time, error) {
	setting, err := s.db.GetSetting(entities.SettingKeyNotionSyncDelta)
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	delta, err := time.Parse(time.RFC3339, setting.Value)
	if err != nil {
		return nil, fmt.Errorf("invalid sync delta %q: %w", setting.Value, err)
	}
	return &delta, nil
}

// CommitSyncDelta persists the watermark. Only called after a fully
// successful run.
func (s *SettingsStore) CommitSyncDelta(t time.Time) error {
	return s.db.SetSetting(entities.SettingKeyNotionSyncDelta, t.UTC().Format(time.RFC3339))
}

// ClearSyncDelta removes the watermark, forcing the next run to re-read
// everything.
func (s *SettingsStore) ClearSyncDelta() error {
	return s.db.DeleteSetting(entities.SettingKeyNotionSyncDelta)
}

// GetSyncSchedule resolves the cron schedule: database value first, then
// the SYNC_SCHEDULE environment variable, then the default.
func (s *SettingsStore) GetSyncSchedule() string {
	setting, err := s.db.GetSetting(entities.SettingKeyNotionSyncSchedule)
	if err == nil && setting.Value != "" {
		return setting.Value
	}

	if envSchedule := os.Getenv("SYNC_SCHEDULE"); envSchedule != "" {
		return envSchedule
	}

	return defaultSyncSchedule
}

func (s *SettingsStore) SetSyncSchedule(schedule string) error {
	return s.db.SetSetting(entities.SettingKeyNotionSyncSchedule, schedule)
}

// SetSyncStatus records the outcome of a sync run.
func (s *SettingsStore) SetSyncStatus(status, message string, annotationsSynced int) error {
	now := time.Now().UTC().Format(time.RFC3339)
	if err := s.db.SetSetting(entities.SettingKeyNotionSyncLastAt, now); err != nil {
		return err
	}
	if err := s.db.SetSetting(entities.SettingKeyNotionSyncLastStatus, status); err != nil {
		return err
	}
	if err := s.db.SetSetting(entities.SettingKeyNotionSyncLastMessage, message); err != nil {
		return err
	}
	return s.db.SetSetting(entities.SettingKeyNotionSyncAnnotationsSynced, strconv.Itoa(annotationsSynced))
}

// GetSyncStatus returns the recorded outcome of the most recent run.
// Missing settings are treated as "never synced".
func (s *SettingsStore) GetSyncStatus() (*SyncStatus, error) {
	status := &SyncStatus{Status: "never"}

	if setting, err := s.db.GetSetting(entities.SettingKeyNotionSyncLastAt); err == nil {
		if at, parseErr := time.Parse(time.RFC3339, setting.Value); parseErr == nil {
			status.LastSyncAt = &at
		}
	} else if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	if setting, err := s.db.GetSetting(entities.SettingKeyNotionSyncLastStatus); err == nil {
		status.Status = setting.Value
	} else if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	if setting, err := s.db.GetSetting(entities.SettingKeyNotionSyncLastMessage); err == nil {
		status.Message = setting.Value
	} else if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	if setting, err := s.db.GetSetting(entities.SettingKeyNotionSyncAnnotationsSynced); err == nil {
		if n, parseErr := strconv.Atoi(setting.Value); parseErr == nil {
			status.AnnotationsSynced = n
		}
	} else if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	return status, nil
}
