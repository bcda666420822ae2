package database

/*
	The database holds reference and audit data only: the country catalogue the
	generator scatters threats around, and one row per export. The threat store
	itself lives in memory and is never written here. By default the database is
	in-memory too, so nothing survives the session.
*/

import (
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite" // Sqlite driver based on CGO
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pynezz/cybermap/internal/database/models"
	"github.com/pynezz/cybermap/internal/fs"
	"github.com/pynezz/cybermap/internal/threat"
)

const (
	// MemoryPath selects the shared in-memory database.
	MemoryPath = ":memory:"

	memoryDSN = "file:cybermap?mode=memory&cache=shared"
)

var ErrEmptyCatalogue = errors.New("country catalogue is empty")

// DSN maps a configured path to a sqlite DSN.
func DSN(path string) string {
	switch {
	case path == "" || path == MemoryPath:
		return memoryDSN
	case strings.HasPrefix(path, "file:"):
		return path
	}
	return path
}

func isMemory(dsn string) bool {
	return strings.Contains(dsn, "mode=memory") || strings.Contains(dsn, MemoryPath)
}

// Open opens the sqlite database at path and automigrates every model.
func Open(path string, config ...gorm.Config) (*gorm.DB, error) {
	conf := gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}
	if len(config) != 0 {
		conf = config[0]
	}

	dsn := DSN(path)
	if !isMemory(dsn) {
		if err := fs.EnsureParentDir(dsn); err != nil {
			return nil, errors.Wrapf(err, "create database directory for %s", dsn)
		}
	}

	db, err := gorm.Open(sqlite.Open(dsn), &conf)
	if err != nil {
		return nil, errors.WithHint(errors.Wrapf(err, "open database %s", dsn),
			"the sqlite driver needs cgo; set database.path to a writable location")
	}

	if isMemory(dsn) {
		// Every pooled connection would otherwise see its own empty database
		// once the shared cache is released.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, errors.Wrap(err, "get sql handle")
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := db.AutoMigrate(models.GetModels()...); err != nil {
		return nil, errors.Wrap(err, "migrate models")
	}

	return db.Session(&gorm.Session{CreateBatchSize: 100}), nil
}

// Repository groups the stores the dashboard uses.
type Repository struct {
	db        *gorm.DB
	locations *DataStore[models.GeoLocation]
	exports   *DataStore[models.ExportLog]
	log       *zap.Logger
}

func NewRepository(db *gorm.DB, log *zap.Logger) (*Repository, error) {
	if log == nil {
		log = zap.NewNop()
	}
	locations, err := NewDataStore[models.GeoLocation](db, models.GEO_LOCATIONS)
	if err != nil {
		return nil, err
	}
	exports, err := NewDataStore[models.ExportLog](db, models.EXPORT_LOGS)
	if err != nil {
		return nil, err
	}
	return &Repository{db: db, locations: locations, exports: exports, log: log}, nil
}

// SeedCountries inserts countries when the catalogue is empty. An existing
// catalogue is left untouched.
func (r *Repository) SeedCountries(countries []threat.Country) error {
	n, err := r.locations.Count()
	if err != nil {
		return err
	}
	if n > 0 {
		r.log.Debug("country catalogue already seeded", zap.Int64("countries", n))
		return nil
	}

	rows := make([]models.GeoLocation, len(countries))
	for i, c := range countries {
		rows[i] = models.GeoLocation{Name: c.Name, Lat: c.Lat, Lng: c.Lng}
	}
	if err := r.locations.InsertBatch(rows); err != nil {
		return err
	}
	r.log.Info("seeded country catalogue", zap.Int("countries", len(rows)))
	return nil
}

// Countries returns the catalogue in insertion order.
func (r *Repository) Countries() ([]threat.Country, error) {
	rows, err := r.locations.All()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrEmptyCatalogue
	}
	out := make([]threat.Country, len(rows))
	for i, row := range rows {
		out[i] = threat.Country{Name: row.Name, Lat: row.Lat, Lng: row.Lng}
	}
	return out, nil
}

// RecordExport audits an export.
func (r *Repository) RecordExport(filename string, records int) error {
	return r.exports.Insert(models.ExportLog{Filename: filename, Records: records})
}

// Exports returns the export audit, oldest first.
func (r *Repository) Exports() ([]models.ExportLog, error) {
	return r.exports.All()
}

func (r *Repository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return errors.Wrap(err, "get sql handle")
	}
	return sqlDB.Close()
}
