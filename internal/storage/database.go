package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"weather-history/internal/weather"
)

const observationBatchSize = 200

type Database struct {
	db *gorm.DB
}

func NewDatabase(path string) (*Database, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Auto-migrate the schema
	if err := db.AutoMigrate(&Search{}, &Observation{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Database{db: db}, nil
}

// SaveSearch stores search and the rows of table in one transaction.
func (d *Database) SaveSearch(search *Search, table *weather.HistoryTable) error {
	search.Rows = table.Len()

	return d.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(search).Error; err != nil {
			return err
		}
		if table.Len() == 0 {
			return nil
		}

		observations := make([]Observation, 0, table.Len())
		for i, r := range table.Records {
			o := newObservation(i, r)
			o.SearchID = search.ID
			observations = append(observations, o)
		}
		return tx.CreateInBatches(observations, observationBatchSize).Error
	})
}

func (d *Database) GetSearches(limit int) ([]Search, error) {
	var searches []Search
	result := d.db.Order("created_at desc").Limit(limit).Find(&searches)
	if result.Error != nil {
		return nil, result.Error
	}
	return searches, nil
}

func (d *Database) GetSearch(id uint) (*Search, error) {
	var search Search
	result := d.db.First(&search, id)
	if result.Error != nil {
		return nil, result.Error
	}
	return &search, nil
}

// GetHistory rebuilds the table archived for a search, in its original row order.
func (d *Database) GetHistory(searchID uint) (*weather.HistoryTable, error) {
	var observations []Observation
	result := d.db.Where("search_id = ?", searchID).
		Order("position asc").
		Find(&observations)
	if result.Error != nil {
		return nil, result.Error
	}

	table := weather.NewHistoryTable()
	for _, o := range observations {
		table.Records = append(table.Records, o.record())
	}
	return table, nil
}

// GetObservationsByRange returns archived rows with timestamps in [from, to].
// Timestamps are stored in UTC, so the bounds are converted before comparing.
func (d *Database) GetObservationsByRange(from, to time.Time) ([]Observation, error) {
	var observations []Observation
	result := d.db.Where("timestamp BETWEEN ? AND ?", from.UTC(), to.UTC()).
		Order("timestamp asc").
		Find(&observations)
	if result.Error != nil {
		return nil, result.Error
	}
	return observations, nil
}

// CleanOldSearches deletes searches created before now-olderThan together with their rows.
func (d *Database) CleanOldSearches(olderThan time.Duration) error {
	cutoff := time.Now().Add(-olderThan)
	return d.db.Transaction(func(tx *gorm.DB) error {
		old := tx.Model(&Search{}).Select("id").Where("created_at < ?", cutoff)
		if err := tx.Where("search_id IN (?)", old).Delete(&Observation{}).Error; err != nil {
			return err
		}
		return tx.Where("created_at < ?", cutoff).Delete(&Search{}).Error
	})
}

func (d *Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
