// Package config loads settings from environment variables and an optional
// YAML file. Environment variables win over file values.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type KoboConfig struct {
	// DatabasePath points at KoboReader.sqlite on the mounted device. When
	// empty at sync time, the cached copy is read instead.
	DatabasePath string
	// CachePath is where the device database is copied before reading.
	CachePath string
}

type NotionConfig struct {
	Token        string
	ParentPageID string
	Icon         string
}

type SyncConfig struct {
	// StatePath is the local SQLite database holding sync state.
	StatePath string
	Schedule  string
}

type Config struct {
	Kobo   KoboConfig
	Notion NotionConfig
	Sync   SyncConfig
}

// ValidationError lists the required settings that are missing.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required configuration: %s", strings.Join(e.Missing, ", "))
}

// NewConfig reads configuration from the environment and, when configFile
// is non-empty, from the given YAML file.
func NewConfig(configFile string) (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("kobo_cache_path", DefaultCachePath)
	v.SetDefault("state_database_path", DefaultStatePath)
	v.SetDefault("notion_icon", DefaultIcon)
	v.SetDefault("sync_schedule", DefaultSchedule)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	}

	return &Config{
		Kobo: KoboConfig{
			DatabasePath: v.GetString("kobo_database_path"),
			CachePath:    v.GetString("kobo_cache_path"),
		},
		Notion: NotionConfig{
			Token:        v.GetString("notion_token"),
			ParentPageID: v.GetString("notion_parent_page_id"),
			Icon:         v.GetString("notion_icon"),
		},
		Sync: SyncConfig{
			StatePath: v.GetString("state_database_path"),
			Schedule:  v.GetString("sync_schedule"),
		},
	}, nil
}

// Validate checks that every setting without a usable default is present.
func (c *Config) Validate() error {
	var missing []string

	if c.Notion.Token == "" {
		missing = append(missing, "notion_token")
	}
	if c.Notion.ParentPageID == "" {
		missing = append(missing, "notion_parent_page_id")
	}
	if c.Kobo.DatabasePath == "" {
		missing = append(missing, "kobo_database_path")
	}

	if len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}
	return nil
}
