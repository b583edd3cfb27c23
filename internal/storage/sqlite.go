package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type kvRecord struct {
	Origin string `gorm:"primaryKey;size:255"`
	Key    string `gorm:"primaryKey;size:255"`
	Value  string
}

func (kvRecord) TableName() string { return "kv_records" }

// SQLite is a Store backed by an embedded SQLite database.
type SQLite struct {
	conn   *gorm.DB
	origin string
}

// NewSQLite opens (or creates) the database at path and migrates the kv table.
func NewSQLite(path, origin string) (*SQLite, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	if origin == "" {
		return nil, fmt.Errorf("storage origin is required")
	}

	gormLogger := gormlogger.New(
		log.New(io.Discard, "", log.LstdFlags),
		gormlogger.Config{LogLevel: gormlogger.Silent},
	)

	conn, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening sqlite store: %w", err)
	}
	if err := conn.AutoMigrate(&kvRecord{}); err != nil {
		return nil, fmt.Errorf("migrating kv table: %w", err)
	}
	return &SQLite{conn: conn, origin: origin}, nil
}

func (s *SQLite) Get(ctx context.Context, key string) (string, error) {
	var rec kvRecord
	err := s.conn.WithContext(ctx).
		Where("origin = ? AND key = ?", s.origin, key).
		First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("reading %q: %w", key, err)
	}
	return rec.Value, nil
}

func (s *SQLite) Set(ctx context.Context, key, value string) error {
	rec := kvRecord{Origin: s.origin, Key: key, Value: value}
	err := s.conn.WithContext(ctx).Save(&rec).Error
	if err != nil {
		return fmt.Errorf("writing %q: %w", key, err)
	}
	return nil
}

func (s *SQLite) Remove(ctx context.Context, key string) error {
	err := s.conn.WithContext(ctx).
		Where("origin = ? AND key = ?", s.origin, key).
		Delete(&kvRecord{}).Error
	if err != nil {
		return fmt.Errorf("removing %q: %w", key, err)
	}
	return nil
}

// Close shuts down the pooled connections.
func (s *SQLite) Close() error {
	sqlDB, err := s.conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
