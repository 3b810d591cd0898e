// Package db persists the task store in a SQLite file through GORM.
package db

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SQLiteBackend implements store.Backend on top of a SQLite database.
// The connection is opened lazily so that loading a store that was never
// saved does not create an empty database file.
type SQLiteBackend struct {
	path string
	db   *gorm.DB
}

// NewSQLiteBackend returns a backend for the database file at path
func NewSQLiteBackend(path string) *SQLiteBackend {
	return &SQLiteBackend{path: path}
}

// Path returns the database file location
func (b *SQLiteBackend) Path() string {
	return b.path
}

// exists reports whether the database file is already on disk
func (b *SQLiteBackend) exists() (bool, error) {
	_, err := os.Stat(b.path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// connect opens the database and runs migrations on first use
func (b *SQLiteBackend) connect() (*gorm.DB, error) {
	if b.db != nil {
		return b.db, nil
	}

	// Ensure the directory exists
	if err := os.MkdirAll(filepath.Dir(b.path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(b.path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent), // Quiet by default
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		if sqlDB, derr := db.DB(); derr == nil {
			sqlDB.Close() //nolint:errcheck
		}
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	b.db = db
	return db, nil
}

// runMigrations creates/updates the database schema
func runMigrations(db *gorm.DB) error {
	return db.AutoMigrate(
		&taskRow{},
		&metaRow{},
	)
}

// Close closes the database connection
func (b *SQLiteBackend) Close() error {
	if b.db != nil {
		sqlDB, err := b.db.DB()
		if err != nil {
			return err
		}
		b.db = nil
		return sqlDB.Close()
	}
	return nil
}
