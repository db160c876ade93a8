package database

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// DB wraps the gorm connection
type DB struct {
	*gorm.DB
}

// NewDBFromGorm wraps an existing gorm connection
func NewDBFromGorm(db *gorm.DB) *DB {
	return &DB{DB: db}
}

// Open opens a connection using the named driver: sqlite, mysql or postgres
func Open(driver, dsn string, maxOpen, maxIdle int) (*DB, error) {
	dialector, err := dialectorFor(driver, dsn)
	if err != nil {
		return nil, err
	}

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if maxOpen > 0 {
		sqlDB.SetMaxOpenConns(maxOpen)
	}
	if maxIdle > 0 {
		sqlDB.SetMaxIdleConns(maxIdle)
	}
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	return &DB{DB: gormDB}, nil
}

func dialectorFor(driver, dsn string) (gorm.Dialector, error) {
	switch strings.ToLower(driver) {
	case "", "sqlite", "sqlite3":
		if dsn != ":memory:" && !strings.Contains(dsn, "?") {
			dsn += "?_foreign_keys=on&_journal_mode=WAL"
		}
		return sqlite.Open(dsn), nil
	case "mysql":
		return mysql.Open(dsn), nil
	case "postgres", "postgresql":
		return postgres.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// Migrate creates the catalogue tables and indexes
func (db *DB) Migrate() error {
	err := db.AutoMigrate(
		&Book{},
		&Song{},
		&Artist{},
		&Lyricist{},
		&Songwriter{},
		&Arranger{},
		&SongArtist{},
		&SongLyricist{},
		&SongWriterLink{},
		&SongArranger{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// Close closes the underlying connection pool
func (db *DB) Close() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
