// Package testutil provides an in-memory SQLite database with the service
// schema and seed helpers for package tests.
package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/shareit-hub/service-booking/internal/repository"
	"github.com/shareit-hub/service-booking/pkg/database"
)

// NewDB opens a fresh in-memory database with all tables migrated. A single
// connection is used so transactions and concurrent callers serialize.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), database.GormConfig(zap.NewNop()))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(repository.Models()...))
	return db
}

// SeedUser inserts a user.
func SeedUser(t testing.TB, db *gorm.DB, id int64) {
	t.Helper()
	require.NoError(t, db.Create(&repository.UserModel{
		ID:        id,
		Name:      fmt.Sprintf("user-%d", id),
		Email:     fmt.Sprintf("user%d@example.com", id),
		UpdatedAt: time.Now().UTC(),
	}).Error)
}

// SeedItem inserts an item owned by ownerID.
func SeedItem(t testing.TB, db *gorm.DB, id, ownerID int64, available bool) {
	t.Helper()
	now := time.Now().UTC()
	require.NoError(t, db.Create(&repository.ItemModel{
		ID:        id,
		OwnerID:   ownerID,
		Name:      fmt.Sprintf("item-%d", id),
		Available: available,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}).Error)
}

// SeedBooking inserts a booking and returns its id.
func SeedBooking(t testing.TB, db *gorm.DB, itemID, bookerID int64, start, end time.Time, status string) int64 {
	t.Helper()
	now := time.Now().UTC()
	m := &repository.BookingModel{
		StartDate: start.UTC(),
		EndDate:   end.UTC(),
		ItemID:    itemID,
		BookerID:  bookerID,
		Status:    status,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, db.Create(m).Error)
	return m.ID
}
