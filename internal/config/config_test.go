package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDBConfig_Defaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "")
	t.Setenv("DB_PORT", "not-a-number")

	cfg, err := LoadDBConfig()
	require.NoError(t, err)
	assert.Equal(t, DriverPostgres, cfg.Driver)
	assert.Equal(t, 5432, cfg.Port)
	assert.Contains(t, cfg.DSN(), "dbname=rental_db")
	assert.Contains(t, cfg.DSN(), "TimeZone=UTC")
}

func TestLoadDBConfig_SQLite(t *testing.T) {
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("DB_SQLITE_PATH", ":memory:")

	cfg, err := LoadDBConfig()
	require.NoError(t, err)
	assert.Equal(t, DriverSQLite, cfg.Driver)
	assert.Equal(t, ":memory:", cfg.SQLitePath)
}

func TestLoadDBConfig_UnknownDriver(t *testing.T) {
	t.Setenv("DB_DRIVER", "oracle")

	_, err := LoadDBConfig()
	assert.Error(t, err)
}

func TestLoad_DevelopmentLogger(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("APP_ENV", "development")
	t.Setenv("LOGGER_LEVEL", "")
	t.Setenv("LOGGER_ENCODING", "")
	t.Setenv("HTTP_REQUEST_TIMEOUT", "5s")
	t.Setenv("REDIS_LOCK_TTL", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.Logger.Development)
	assert.Equal(t, "console", cfg.Logger.Encoding)
	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.Equal(t, 5*time.Second, cfg.HTTP.RequestTimeout)
	assert.Equal(t, 10*time.Second, cfg.Redis.LockTTL)
	assert.Empty(t, cfg.Redis.Addr)
}

func TestLoad_LockTTLShorterThanRequestTimeout(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("HTTP_REQUEST_TIMEOUT", "30s")
	t.Setenv("REDIS_LOCK_TTL", "10s")

	_, err := Load()
	assert.Error(t, err)

	t.Setenv("REDIS_LOCK_TTL", "30s")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, cfg.Redis.LockTTL)
}
