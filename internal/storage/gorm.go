package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Blob is one stored document, keyed by its slot path.
type Blob struct {
	Path      string `gorm:"primaryKey;size:512"`
	Data      []byte
	UpdatedAt time.Time
}

// GormStore keeps documents in a database table. Each Save replaces the row
// in a single statement, so readers never see a partial document.
type GormStore struct {
	db *gorm.DB
}

// OpenPostgres connects to PostgreSQL.
func OpenPostgres(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database object: %w", err)
	}
	sqlDB.SetMaxIdleConns(2)
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}

// NewGormStore migrates the blob table and returns a store on it.
func NewGormStore(db *gorm.DB) (*GormStore, error) {
	if err := db.AutoMigrate(&Blob{}); err != nil {
		return nil, fmt.Errorf("blob table migration failed: %w", err)
	}
	return &GormStore{db: db}, nil
}

// Save inserts or replaces the document at path.
func (s *GormStore) Save(ctx context.Context, path string, reader io.Reader) (int64, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return 0, err
	}
	blob := Blob{Path: path, Data: data}
	if err := s.db.WithContext(ctx).Save(&blob).Error; err != nil {
		return 0, fmt.Errorf("failed to write %s: %w", path, err)
	}
	return int64(len(data)), nil
}

// Get returns the document at path. A missing row is reported as
// fs.ErrNotExist, the same as the file store.
func (s *GormStore) Get(ctx context.Context, path string) (io.ReadCloser, error) {
	var blob Blob
	err := s.db.WithContext(ctx).Where("path = ?", path).First(&blob).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%s: %w", path, fs.ErrNotExist)
	}
	if err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(blob.Data)), nil
}

// Exists reports whether a document is stored at path.
func (s *GormStore) Exists(ctx context.Context, path string) (bool, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&Blob{}).Where("path = ?", path).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// Delete removes the document at path.
func (s *GormStore) Delete(ctx context.Context, path string) error {
	return s.db.WithContext(ctx).Where("path = ?", path).Delete(&Blob{}).Error
}

// Close releases the database connections.
func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
