package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_EnvOverridesDefaults(t *testing.T) {
	t.Setenv("BOOKING_DB_HOST", "db.internal")
	t.Setenv("BOOKING_KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("BOOKING_SERVICE_PORT", "9000")
	t.Setenv("BOOKING_RATE_LIMIT_WINDOW", "30s")

	v, err := Load("BOOKING")
	require.NoError(t, err)

	db := LoadDatabaseConfig(v, "DB_NAME")
	assert.Equal(t, "db.internal", db.Host)
	assert.Equal(t, "5432", db.Port)
	assert.Equal(t, "shareit_booking", db.DBName)

	assert.Equal(t, []string{"k1:9092", "k2:9092"}, LoadKafkaConfig(v).Brokers)
	assert.Equal(t, ":9000", GetServicePort(v, "SERVICE_PORT", "8083"))
	assert.Equal(t, 30*time.Second, LoadRateLimitConfig(v).Window)
	assert.Equal(t, "development", GetAppEnv(v))
}

func TestGetServicePort_Fallback(t *testing.T) {
	v, err := Load("BOOKINGTEST")
	require.NoError(t, err)
	assert.Equal(t, ":8083", GetServicePort(v, "SERVICE_PORT", "8083"))
}

func TestLoadInt64List(t *testing.T) {
	t.Setenv("BOOKING_ADMIN_USER_IDS", "1, 42")
	v, err := Load("BOOKING")
	require.NoError(t, err)

	ids, err := LoadInt64List(v, "ADMIN_USER_IDS")
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 42}, ids)

	t.Setenv("BOOKING_ADMIN_USER_IDS", "1,x")
	_, err = LoadInt64List(v, "ADMIN_USER_IDS")
	assert.Error(t, err)
}
