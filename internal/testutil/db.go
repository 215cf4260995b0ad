// Package testutil provides an in-memory store for package tests.
package testutil

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"food_store/internal/migrations"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB returns a migrated in-memory sqlite database private to t.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// Every connection to ":memory:" is a separate database, so pin the pool to one.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, migrations.RunMigrations(db, Logger()))
	return db
}

// Logger discards output.
func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Clock is a settable time source.
type Clock struct {
	Current time.Time
}

func NewClock(start time.Time) *Clock {
	return &Clock{Current: start}
}

func (c *Clock) Now() time.Time {
	return c.Current
}

func (c *Clock) Advance(d time.Duration) {
	c.Current = c.Current.Add(d)
}
