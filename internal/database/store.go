package database

import (
	"github.com/cockroachdb/errors"
	"gorm.io/gorm"
)

// Store is the generic table interface, one store per model.
type Store[T any] interface {
	Name() string
	AutoMigrate() error
	Insert(entry T) error
	InsertBatch(entries []T) error
	All() ([]T, error)
	Count() (int64, error)
}

// DataStore is the gorm-backed Store.
type DataStore[T any] struct {
	name string
	db   *gorm.DB
}

// NewDataStore binds a store to table name and automigrates its model.
func NewDataStore[T any](db *gorm.DB, name string) (*DataStore[T], error) {
	s := &DataStore[T]{db: db, name: name}
	if err := s.AutoMigrate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *DataStore[T]) Name() string {
	return s.name
}

// AutoMigrate migrates the store's model to the database
func (s *DataStore[T]) AutoMigrate() error {
	var instance T
	if err := s.db.AutoMigrate(&instance); err != nil {
		return errors.Wrapf(err, "migrate %s", s.name)
	}
	return nil
}

// Insert inserts one row
func (s *DataStore[T]) Insert(entry T) error {
	if err := s.db.Create(&entry).Error; err != nil {
		return errors.Wrapf(err, "insert into %s", s.name)
	}
	return nil
}

// InsertBatch inserts rows in one statement per CreateBatchSize
func (s *DataStore[T]) InsertBatch(entries []T) error {
	if len(entries) == 0 {
		return nil
	}
	if err := s.db.Create(&entries).Error; err != nil {
		return errors.Wrapf(err, "insert batch of %d into %s", len(entries), s.name)
	}
	return nil
}

// All returns every row ordered by primary key
func (s *DataStore[T]) All() ([]T, error) {
	var rows []T
	if err := s.db.Order("id").Find(&rows).Error; err != nil {
		return nil, errors.Wrapf(err, "read %s", s.name)
	}
	return rows, nil
}

func (s *DataStore[T]) Count() (int64, error) {
	var instance T
	var n int64
	if err := s.db.Model(&instance).Count(&n).Error; err != nil {
		return 0, errors.Wrapf(err, "count %s", s.name)
	}
	return n, nil
}
