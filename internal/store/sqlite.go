package store

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// recordRow is one record of a collection, ordered by Position.
type recordRow struct {
	Collection string `gorm:"primaryKey;size:64"`
	Position   int    `gorm:"primaryKey;autoIncrement:false"`
	Body       string `gorm:"type:text;not null"`
}

func (recordRow) TableName() string {
	return "records"
}

// SQLStore keeps collections in a single table of an embedded SQLite
// database. Save replaces a collection inside one transaction.
type SQLStore struct {
	db *gorm.DB
}

var _ RecordStore = (*SQLStore)(nil)

// OpenSQLite opens (or creates) the database file at path.
func OpenSQLite(path string, debug bool) (*gorm.DB, error) {
	logLevel := logger.Silent
	if debug {
		logLevel = logger.Info
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "open sqlite %s", path)
	}
	return db, nil
}

func NewSQLStore(db *gorm.DB) (*SQLStore, error) {
	if err := db.AutoMigrate(&recordRow{}); err != nil {
		return nil, errors.Wrap(err, "migrate records table")
	}
	return &SQLStore{db: db}, nil
}

func (s *SQLStore) Load(ctx context.Context, name string) ([]Record, error) {
	var rows []recordRow
	err := s.db.WithContext(ctx).
		Where("collection = ?", name).
		Order("position").
		Find(&rows).Error
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", name)
	}
	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		var r Record
		if err := decodeJSON([]byte(row.Body), &r); err != nil {
			return nil, errors.Wrapf(err, "%s record %d", name, row.Position)
		}
		records = append(records, r)
	}
	return records, nil
}

func (s *SQLStore) Save(ctx context.Context, name string, records []Record) error {
	rows := make([]recordRow, 0, len(records))
	for i, r := range records {
		b, err := json.Marshal(r)
		if err != nil {
			return errors.Wrapf(err, "encode %s record %d", name, i)
		}
		rows = append(rows, recordRow{Collection: name, Position: i, Body: string(b)})
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("collection = ?", name).Delete(&recordRow{}).Error; err != nil {
			return errors.Wrapf(err, "clear %s", name)
		}
		if len(rows) == 0 {
			return nil
		}
		return errors.Wrapf(tx.Create(&rows).Error, "insert %s", name)
	})
}
