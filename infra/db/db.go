// Package db opens the shared database so that the spatial extension is
// loaded before any geometry column is touched. PostgreSQL gets PostGIS and
// btree_gist, the file backend gets SpatiaLite through a dedicated sqlite3
// driver registration.
package db

import (
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	sqlite3 "github.com/mattn/go-sqlite3"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/kilianp07/fleetdb/config"
)

const spatialiteDriver = "sqlite3_spatialite"

var registerOnce sync.Once

func registerSpatialite() {
	registerOnce.Do(func() {
		sql.Register(spatialiteDriver, &sqlite3.SQLiteDriver{
			Extensions: []string{"mod_spatialite"},
		})
	})
}

// IsPostgresURL reports whether the DSN selects the PostgreSQL backend.
// Anything else is treated as a SpatiaLite file path.
func IsPostgresURL(url string) bool {
	return strings.HasPrefix(url, "postgres://") || strings.HasPrefix(url, "postgresql://")
}

// Open connects to the database named by the config, loads the spatial
// extension and applies the pool settings.
func Open(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var (
		gdb *gorm.DB
		err error
	)
	opts := &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Warn)}
	if IsPostgresURL(cfg.URL) {
		gdb, err = gorm.Open(postgres.Open(cfg.URL), opts)
		if err != nil {
			return nil, fmt.Errorf("opening postgres: %w", err)
		}
		for _, ext := range []string{"postgis", "btree_gist"} {
			if err := gdb.Exec("CREATE EXTENSION IF NOT EXISTS " + ext).Error; err != nil {
				return nil, fmt.Errorf("creating extension %s: %w", ext, err)
			}
		}
	} else {
		registerSpatialite()
		dsn := strings.TrimPrefix(cfg.URL, "sqlite://")
		if !strings.Contains(dsn, "?") {
			dsn += "?_foreign_keys=1"
		} else if !strings.Contains(dsn, "_foreign_keys") {
			dsn += "&_foreign_keys=1"
		}
		gdb, err = gorm.Open(sqlite.Dialector{DriverName: spatialiteDriver, DSN: dsn}, opts)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite: %w", err)
		}
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetimeSeconds) * time.Second)
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return gdb, nil
}
