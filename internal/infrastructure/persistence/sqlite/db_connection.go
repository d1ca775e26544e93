// Package sqlite provides the SQLite-backed key store, built on gorm.
package sqlite

import (
	"context"
	"fmt"

	"github.com/turtacn/mrsa/internal/domain/models"
	"github.com/turtacn/mrsa/pkg/logger"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Open connects to the SQLite database at dsn and migrates the key schema.
//
// The pool is limited to one connection: SQLite serialises writers anyway, and
// an in-memory database exists per connection.
func Open(ctx context.Context, dsn string, log logger.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", dsn, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.WithContext(ctx).AutoMigrate(&models.KeyRecord{}, &models.AuditEvent{}); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("migrate key schema: %w", err)
	}

	log.Info(ctx, "Key store ready", logger.Fields{"dsn": dsn})
	return db, nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
