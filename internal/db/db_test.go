package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Leganyst/rental-inventory/internal/config"
	"github.com/Leganyst/rental-inventory/internal/model"
)

func TestNewGormDB_InMemorySQLite(t *testing.T) {
	gdb, err := NewGormDB(&config.DBConfig{Driver: config.DriverSQLite, SQLitePath: ":memory:", MaxOpenConns: 10})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)
	assert.False(t, SupportsRowLocks(gdb))

	require.NoError(t, model.AutoMigrate(gdb))
	assert.True(t, gdb.Migrator().HasTable(&model.Booking{}))
	assert.True(t, gdb.Migrator().HasTable(&model.BookingLineItem{}))
}

func TestNewGormDB_SQLiteForeignKeys(t *testing.T) {
	gdb, err := NewGormDB(&config.DBConfig{Driver: config.DriverSQLite, SQLitePath: ":memory:"})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	var on int
	require.NoError(t, gdb.Raw("PRAGMA foreign_keys").Scan(&on).Error)
	assert.Equal(t, 1, on)
}

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, ":memory:?_foreign_keys=on", sqliteDSN(":memory:"))
	assert.Equal(t, "file:rental.db?cache=shared&_foreign_keys=on", sqliteDSN("file:rental.db?cache=shared"))
	assert.Equal(t, "rental.db?_fk=0", sqliteDSN("rental.db?_fk=0"))
}

func TestNewGormDB_UnknownDriver(t *testing.T) {
	_, err := NewGormDB(&config.DBConfig{Driver: "oracle"})
	assert.Error(t, err)
}
