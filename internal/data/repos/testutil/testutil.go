package testutil

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/speakwell-backend/internal/data/db"
	"github.com/yungbote/speakwell-backend/internal/platform/logger"
)

var errMissingDSN = errors.New("missing TEST_POSTGRES_DSN")

var (
	pgOnce sync.Once
	pgDB   *gorm.DB
	pgErr  error

	logOnce sync.Once
	logg    *logger.Logger
	logErr  error
)

func Logger(tb testing.TB) *logger.Logger {
	tb.Helper()
	logOnce.Do(func() {
		logg, logErr = logger.New("test")
	})
	if logErr != nil {
		tb.Fatalf("failed to init logger: %v", logErr)
	}
	return logg
}

// DB returns a migrated database. Without TEST_POSTGRES_DSN every call gets its own
// in-memory SQLite database, so tests never observe each other's rows.
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()
	if strings.TrimSpace(os.Getenv("TEST_POSTGRES_DSN")) != "" {
		return postgresDB(tb)
	}
	return sqliteDB(tb)
}

func sqliteDB(tb testing.TB) *gorm.DB {
	tb.Helper()
	dsn := fmt.Sprintf("file:test_%s?mode=memory&cache=shared&_foreign_keys=on", strings.ReplaceAll(uuid.NewString(), "-", ""))
	svc, err := db.Open(db.Options{Driver: db.DriverSQLite, DSN: dsn, Silent: true}, Logger(tb))
	if err != nil {
		tb.Fatalf("open sqlite: %v", err)
	}
	tb.Cleanup(func() { _ = svc.Close() })
	if err := db.AutoMigrateAll(svc.DB()); err != nil {
		tb.Fatalf("migrate sqlite: %v", err)
	}
	return svc.DB()
}

func postgresDB(tb testing.TB) *gorm.DB {
	tb.Helper()
	pgOnce.Do(func() {
		dsn := os.Getenv("TEST_POSTGRES_DSN")
		if dsn == "" {
			pgErr = errMissingDSN
			return
		}
		svc, err := db.Open(db.Options{Driver: db.DriverPostgres, DSN: dsn, Silent: true}, logger.Nop())
		if err != nil {
			pgErr = err
			return
		}
		if err := db.AutoMigrateAll(svc.DB()); err != nil {
			pgErr = err
			return
		}
		pgDB = svc.DB()
	})
	if errors.Is(pgErr, errMissingDSN) {
		tb.Skip("set TEST_POSTGRES_DSN to run against postgres")
	}
	if pgErr != nil {
		tb.Fatalf("failed to init test db: %v", pgErr)
	}
	return pgDB
}

// Tx opens a transaction rolled back when the test ends.
func Tx(tb testing.TB, db *gorm.DB) *gorm.DB {
	tb.Helper()
	tx := db.Begin()
	if tx.Error != nil {
		tb.Fatalf("begin tx: %v", tx.Error)
	}
	tb.Cleanup(func() {
		_ = tx.Rollback().Error
	})
	return tx
}
