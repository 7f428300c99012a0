package database

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type counter struct {
	ID    int64 `gorm:"primaryKey;autoIncrement"`
	Value int
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), GormConfig(zap.NewNop()))
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&counter{}))
	return db
}

func TestPostgresConfig_URLs(t *testing.T) {
	cfg := PostgresConfig{
		Host: "db", Port: "5432", User: "shareit", Password: "p@ss word",
		DBName: "booking", SSLMode: "disable",
	}

	assert.Equal(t, "postgres://shareit:p%40ss%20word@db:5432/booking?sslmode=disable", cfg.DatabaseURL())
	assert.Contains(t, cfg.DSN(), "dbname=booking")
	assert.Contains(t, cfg.DSN(), "TimeZone=UTC")
}

func TestWithinTransaction_RollsBackOnError(t *testing.T) {
	db := openTestDB(t)
	tm := NewTxManager(db)
	ctx := context.Background()

	err := tm.WithinTransaction(ctx, func(ctx context.Context) error {
		require.NoError(t, Conn(ctx, db).Create(&counter{Value: 1}).Error)
		return errors.New("abort")
	})
	require.Error(t, err)

	var n int64
	require.NoError(t, db.Model(&counter{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestWithinTransaction_NestedJoinsOuter(t *testing.T) {
	db := openTestDB(t)
	tm := NewTxManager(db)
	ctx := context.Background()

	err := tm.WithinTransaction(ctx, func(ctx context.Context) error {
		return tm.WithinTransaction(ctx, func(ctx context.Context) error {
			return Conn(ctx, db).Create(&counter{Value: 2}).Error
		})
	})
	require.NoError(t, err)

	var n int64
	require.NoError(t, db.Model(&counter{}).Count(&n).Error)
	assert.Equal(t, int64(1), n)
}
