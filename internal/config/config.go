package config

import (
	"github.com/shareit-hub/service-booking/pkg/config"
)

// ServiceConfig holds all configuration for the booking service.
type ServiceConfig struct {
	Port         string
	AppEnv       string
	DBConfig     config.DatabaseConfig
	KafkaConfig  config.KafkaConfig
	RedisConfig  config.RedisConfig
	RateLimit    config.RateLimitConfig
	AdminUserIDs []int64
}

// Load reads configuration from environment variables.
func Load() (*ServiceConfig, error) {
	v, err := config.Load("BOOKING")
	if err != nil {
		return nil, err
	}

	adminIDs, err := config.LoadInt64List(v, "ADMIN_USER_IDS")
	if err != nil {
		return nil, err
	}

	return &ServiceConfig{
		Port:         config.GetServicePort(v, "SERVICE_PORT", ":8083"),
		AppEnv:       config.GetAppEnv(v),
		DBConfig:     config.LoadDatabaseConfig(v, "DB_NAME"),
		KafkaConfig:  config.LoadKafkaConfig(v),
		RedisConfig:  config.LoadRedisConfig(v),
		RateLimit:    config.LoadRateLimitConfig(v),
		AdminUserIDs: adminIDs,
	}, nil
}
