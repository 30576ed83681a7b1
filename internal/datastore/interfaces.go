// interfaces.go: this code defines the interface for the database operations
package datastore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/tphakala/foodchain-go/internal/conf"
	"github.com/tphakala/foodchain-go/internal/errors"
	"github.com/tphakala/foodchain-go/internal/foodchain"
)

// IndexResult is one persisted per-zone index row.
type IndexResult struct {
	ID        uint   `gorm:"column:id;primaryKey;autoIncrement"`
	RunID     string `gorm:"index"`
	IndexName string `gorm:"index"`
	ZoneID    string `gorm:"index"`
	Counts    string // index-specific raw counts, JSON encoded
	Result    float64
	CreatedAt time.Time
}

// Interface abstracts the underlying database implementation and defines
// the operations the pipeline needs.
type Interface interface {
	Open() error
	Close() error
	SaveTable(ctx context.Context, runID string, table *foodchain.Table) error
	GetResults(ctx context.Context, runID, indexName string) ([]IndexResult, error)
}

// DataStore implements Interface using a GORM database.
type DataStore struct {
	DB *gorm.DB // GORM database instance
}

// New creates a datastore instance based on the provided configuration.
// Returns nil when no database output is enabled.
func New(settings *conf.Settings) Interface {
	switch {
	case settings.Output.SQLite.Enabled:
		return &SQLiteStore{
			Settings: settings,
		}
	case settings.Output.MySQL.Enabled:
		return &MySQLStore{
			Settings: settings,
		}
	default:
		return nil
	}
}

// SaveTable stores every row of an index table in a single transaction.
func (ds *DataStore) SaveTable(ctx context.Context, runID string, table *foodchain.Table) error {
	if ds.DB == nil {
		return errors.Newf("database connection is not initialized").
			Category(errors.CategoryDatabase).
			Build()
	}

	records := make([]IndexResult, 0, len(table.Rows))
	for i := range table.Rows {
		countsJSON, err := json.Marshal(table.Rows[i].Counts)
		if err != nil {
			return errors.New(err).
				Category(errors.CategoryDatabase).
				Context("index", table.Index).
				Context("zone_id", table.Rows[i].ZoneID).
				Build()
		}
		records = append(records, IndexResult{
			RunID:     runID,
			IndexName: table.Index,
			ZoneID:    table.Rows[i].ZoneID,
			Counts:    string(countsJSON),
			Result:    table.Rows[i].Result,
		})
	}

	return ds.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&records).Error; err != nil {
			return fmt.Errorf("saving index table %s: %w", table.Index, err)
		}
		return nil
	})
}

// GetResults retrieves the persisted rows for one index of one run,
// ordered by zone ID.
func (ds *DataStore) GetResults(ctx context.Context, runID, indexName string) ([]IndexResult, error) {
	if ds.DB == nil {
		return nil, errors.Newf("database connection is not initialized").
			Category(errors.CategoryDatabase).
			Build()
	}

	var results []IndexResult
	err := ds.DB.WithContext(ctx).
		Where("run_id = ? AND index_name = ?", runID, indexName).
		Order("zone_id").
		Find(&results).Error
	if err != nil {
		return nil, errors.New(err).
			Category(errors.CategoryDatabase).
			Context("index", indexName).
			Build()
	}

	return results, nil
}

// Close closes the underlying database connection.
func (ds *DataStore) Close() error {
	if ds.DB == nil {
		return nil
	}

	sqlDB, err := ds.DB.DB()
	if err != nil {
		return fmt.Errorf("getting database connection: %w", err)
	}

	return sqlDB.Close()
}

// performAutoMigration automates database migrations with error handling.
func performAutoMigration(db *gorm.DB, dbType string) error {
	if err := db.AutoMigrate(&IndexResult{}); err != nil {
		return fmt.Errorf("failed to auto-migrate %s database: %w", dbType, err)
	}
	return nil
}
