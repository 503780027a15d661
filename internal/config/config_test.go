package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"KOBO_DATABASE_PATH", "KOBO_CACHE_PATH",
		"NOTION_TOKEN", "NOTION_PARENT_PAGE_ID", "NOTION_ICON",
		"STATE_DATABASE_PATH", "SYNC_SCHEDULE",
	} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestNewConfigFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("KOBO_DATABASE_PATH", "/mnt/kobo/.kobo/KoboReader.sqlite")
	t.Setenv("NOTION_TOKEN", "secret-token")
	t.Setenv("NOTION_PARENT_PAGE_ID", "parent-page")

	cfg, err := NewConfig("")
	require.NoError(t, err)

	assert.Equal(t, "/mnt/kobo/.kobo/KoboReader.sqlite", cfg.Kobo.DatabasePath)
	assert.Equal(t, "secret-token", cfg.Notion.Token)
	assert.Equal(t, "parent-page", cfg.Notion.ParentPageID)
}

func TestNewConfigDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := NewConfig("")
	require.NoError(t, err)

	assert.Equal(t, DefaultCachePath, cfg.Kobo.CachePath)
	assert.Equal(t, DefaultStatePath, cfg.Sync.StatePath)
	assert.Equal(t, DefaultIcon, cfg.Notion.Icon)
	assert.Equal(t, DefaultSchedule, cfg.Sync.Schedule)
}

func TestNewConfigFromFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
kobo_database_path: /media/kobo/.kobo/KoboReader.sqlite
notion_token: file-token
notion_parent_page_id: file-parent
notion_icon: "🔖"
`), 0o644))

	cfg, err := NewConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "/media/kobo/.kobo/KoboReader.sqlite", cfg.Kobo.DatabasePath)
	assert.Equal(t, "file-token", cfg.Notion.Token)
	assert.Equal(t, "file-parent", cfg.Notion.ParentPageID)
	assert.Equal(t, "🔖", cfg.Notion.Icon)
}

func TestNewConfigEnvWinsOverFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("NOTION_TOKEN", "env-token")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("notion_token: file-token\n"), 0o644))

	cfg, err := NewConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "env-token", cfg.Notion.Token)
}

func TestNewConfigMissingFile(t *testing.T) {
	clearEnv(t)

	_, err := NewConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		Kobo:   KoboConfig{DatabasePath: "/mnt/kobo/.kobo/KoboReader.sqlite"},
		Notion: NotionConfig{Token: "token", ParentPageID: "parent"},
	}
	assert.NoError(t, cfg.Validate())
}

func TestValidateReportsAllMissing(t *testing.T) {
	cfg := &Config{}

	err := cfg.Validate()
	require.Error(t, err)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.ElementsMatch(t, []string{
		"notion_token", "notion_parent_page_id", "kobo_database_path",
	}, validationErr.Missing)
	assert.Contains(t, err.Error(), "notion_token")
}
