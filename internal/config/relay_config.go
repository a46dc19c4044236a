package config

import (
	"errors"

	"github.com/joho/godotenv"
)

// RelayConfig holds what the outbox relay needs and nothing more.
type RelayConfig struct {
	Env               string
	LogLevel          string
	DatabaseURL       string
	RabbitMQURL       string
	NotificationQueue string
	HealthAddr        string
}

func LoadRelayConfig() (*RelayConfig, error) {
	_ = godotenv.Load()

	cfg := &RelayConfig{
		Env:               getEnv("APP_ENV", "development"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		DatabaseURL:       getEnv("DB_CONNECTION_STRING", ""),
		RabbitMQURL:       getEnv("RABBITMQ_URL", ""),
		NotificationQueue: getEnv("NOTIFICATION_QUEUE", "hostel.notifications"),
		HealthAddr:        getEnv("RELAY_HEALTH_ADDR", ":8090"),
	}
	if cfg.DatabaseURL == "" {
		return nil, errors.New("DB_CONNECTION_STRING environment variable is required")
	}
	if cfg.RabbitMQURL == "" {
		return nil, errors.New("RABBITMQ_URL environment variable is required")
	}
	return cfg, nil
}
