package entities

import (
	"time"
)

type Setting struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Key       string    `gorm:"uniqueIndex;size:100" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Setting) TableName() string {
	return "settings"
}

// PageLink remembers which Notion page a book was exported to, so repeated
// runs reuse the page instead of searching for it or creating a new one.
type PageLink struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	VolumeID  string    `gorm:"uniqueIndex;size:512" json:"volume_id"`
	Title     string    `gorm:"size:512" json:"title"`
	PageID    string    `gorm:"size:64" json:"page_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (PageLink) TableName() string {
	return "page_links"
}

// Known setting keys
const (
	SettingKeyNotionSyncDelta             = "notion_sync_delta"
	SettingKeyNotionSyncSchedule          = "notion_sync_schedule"
	SettingKeyNotionSyncLastAt            = "notion_sync_last_at"
	SettingKeyNotionSyncLastStatus        = "notion_sync_last_status"
	SettingKeyNotionSyncLastMessage       = "notion_sync_last_message"
	SettingKeyNotionSyncAnnotationsSynced = "notion_sync_annotations_synced"
)
