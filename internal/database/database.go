// Package database manages the local SQLite state store: sync settings
// (delta timestamp, last run status) and the book-to-page links.
package database

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/kobo2notion/internal/entities"
)

type Database struct {
	DB *gorm.DB
}

func NewDatabase(dbPath string) (*Database, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	err = db.AutoMigrate(
		&entities.Setting{},
		&entities.PageLink{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Database{DB: db}, nil
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (d *Database) GetSetting(key string) (*entities.Setting, error) {
	var setting entities.Setting
	err := d.DB.Where("key = ?", key).First(&setting).Error
	if err != nil {
		return nil, err
	}
	return &setting, nil
}

func (d *Database) SetSetting(key, value string) error {
	var setting entities.Setting
	result := d.DB.Where("key = ?", key).First(&setting)

	if result.Error == gorm.ErrRecordNotFound {
		// Create new setting
		setting = entities.Setting{
			Key:   key,
			Value: value,
		}
		return d.DB.Create(&setting).Error
	} else if result.Error != nil {
		return result.Error
	}

	// Update existing setting
	setting.Value = value
	return d.DB.Save(&setting).Error
}

func (d *Database) DeleteSetting(key string) error {
	return d.DB.Where("key = ?", key).Delete(&entities.Setting{}).Error
}

// GetPageLink returns the remembered Notion page for a volume, or nil when
// the book has never been exported.
func (d *Database) GetPageLink(volumeID string) (*entities.PageLink, error) {
	var link entities.PageLink
	err := d.DB.Where("volume_id = ?", volumeID).First(&link).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &link, nil
}

// SavePageLink records (or updates) the Notion page a volume exports to.
func (d *Database) SavePageLink(volumeID, title, pageID string) error {
	var link entities.PageLink
	result := d.DB.Where("volume_id = ?", volumeID).First(&link)

	if result.Error == gorm.ErrRecordNotFound {
		link = entities.PageLink{
			VolumeID: volumeID,
			Title:    title,
			PageID:   pageID,
		}
		return d.DB.Create(&link).Error
	} else if result.Error != nil {
		return result.Error
	}

	link.Title = title
	link.PageID = pageID
	return d.DB.Save(&link).Error
}

// CountPageLinks returns how many books are linked to Notion pages.
func (d *Database) CountPageLinks() (int64, error) {
	var count int64
	err := d.DB.Model(&entities.PageLink{}).Count(&count).Error
	return count, err
}
