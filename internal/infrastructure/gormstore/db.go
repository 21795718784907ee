// Package gormstore implements the credential and relationship stores on
// gorm, for SQLite (local development, tests) and Postgres with read replicas.
package gormstore

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"
)

// Open connects with the named driver ("sqlite" or "postgres"), registers
// read replicas when given and migrates the schema.
func Open(driver, dsn string, replicaDSNs []string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "sqlite":
		dialector = sqlite.Open(dsn)
	case "postgres":
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("gormstore: unsupported driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	if driver == "sqlite" {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		// one writer; transactions would otherwise hit "database is locked"
		sqlDB.SetMaxOpenConns(1)
	}

	if len(replicaDSNs) > 0 && driver == "postgres" {
		replicas := make([]gorm.Dialector, 0, len(replicaDSNs))
		for _, r := range replicaDSNs {
			replicas = append(replicas, postgres.Open(r))
		}
		if err := db.Use(dbresolver.Register(dbresolver.Config{
			Replicas: replicas,
			Policy:   dbresolver.RandomPolicy{},
		})); err != nil {
			return nil, err
		}
	}

	if err := db.AutoMigrate(&userModel{}, &friendRequestModel{}, &friendshipModel{}); err != nil {
		return nil, err
	}
	return db, nil
}

// OpenInMemory opens a private in-memory SQLite database.
func OpenInMemory() (*gorm.DB, error) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000", uuid.NewString())
	return Open("sqlite", dsn, nil)
}

func isDuplicate(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "duplicate key")
}

func isBusy(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "could not serialize") ||
		strings.Contains(msg, "deadlock detected")
}
