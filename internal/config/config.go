package config

import (
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Log       LogConfig
	Store     StoreConfig
	Auth      AuthConfig
	Redis     RedisConfig
	Messaging MessagingConfig
	Blob      BlobConfig
}

type ServerConfig struct {
	Port           string
	Env            string
	AllowedOrigins []string
}

type LogConfig struct {
	Level string
}

// StoreConfig selects and tunes the HostelStore backend.
type StoreConfig struct {
	Backend           string // memory, sqlite, postgres or remote
	Latency           time.Duration
	SQLitePath        string
	DatabaseURL       string
	RemoteURL         string
	RemoteTimeout     time.Duration
	NotificationLimit int
	MonthlyFee        float64
	SeedDemoUsers     bool
}

type AuthConfig struct {
	PrivateKey *rsa.PrivateKey
	PublicKey  *rsa.PublicKey
	TokenTTL   time.Duration
	// EphemeralKeys is set when no key files were found and a throwaway
	// pair was generated for development.
	EphemeralKeys bool
}

type RedisConfig struct {
	Address  string
	Password string
}

type MessagingConfig struct {
	RabbitMQURL       string
	NotificationQueue string
}

type BlobConfig struct {
	Driver      string // memory or s3
	S3Bucket    string
	S3Region    string
	S3Endpoint  string
	S3PathStyle bool
}

const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendRemote   = "remote"
)

// Load reads the configuration from the environment, after loading a .env
// file when one exists.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			Env:            getEnv("APP_ENV", "development"),
			AllowedOrigins: getEnvAsList("ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Store: StoreConfig{
			Backend:           strings.ToLower(getEnv("STORE_BACKEND", BackendMemory)),
			Latency:           getEnvAsDuration("STORE_LATENCY", 0),
			SQLitePath:        getEnv("SQLITE_PATH", "data/hostel.db"),
			DatabaseURL:       getEnv("DB_CONNECTION_STRING", ""),
			RemoteURL:         getEnv("REMOTE_API_URL", ""),
			RemoteTimeout:     getEnvAsDuration("REMOTE_TIMEOUT", time.Second),
			NotificationLimit: getEnvAsInt("NOTIFICATION_LIMIT", 500),
			MonthlyFee:        getEnvAsFloat("DEFAULT_MONTHLY_FEE", 500),
			SeedDemoUsers:     getEnvAsBool("SEED_DEMO_USERS", true),
		},
		Auth: AuthConfig{
			TokenTTL: getEnvAsDuration("TOKEN_TTL", 24*time.Hour),
		},
		Redis: RedisConfig{
			Address:  getEnv("REDIS_ADDRESS", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
		},
		Messaging: MessagingConfig{
			RabbitMQURL:       getEnv("RABBITMQ_URL", ""),
			NotificationQueue: getEnv("NOTIFICATION_QUEUE", "hostel.notifications"),
		},
		Blob: BlobConfig{
			Driver:      strings.ToLower(getEnv("BLOB_DRIVER", "memory")),
			S3Bucket:    getEnv("BLOB_S3_BUCKET", ""),
			S3Region:    getEnv("BLOB_S3_REGION", "us-east-1"),
			S3Endpoint:  getEnv("BLOB_S3_ENDPOINT", ""),
			S3PathStyle: getEnvAsBool("BLOB_S3_PATH_STYLE", false),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if err := cfg.loadKeys(
		getEnv("PRIVATE_KEY_PATH", "/etc/certs/private.pem"),
		getEnv("PUBLIC_KEY_PATH", "/etc/certs/public.pem"),
	); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

func (c *Config) validate() error {
	switch c.Store.Backend {
	case BackendMemory, BackendSQLite:
	case BackendPostgres:
		if c.Store.DatabaseURL == "" {
			return errors.New("DB_CONNECTION_STRING is required for the postgres backend")
		}
	case BackendRemote:
		if c.Store.RemoteURL == "" {
			return errors.New("REMOTE_API_URL is required for the remote backend")
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.Store.Backend)
	}

	switch c.Blob.Driver {
	case "memory":
	case "s3":
		if c.Blob.S3Bucket == "" {
			return errors.New("BLOB_S3_BUCKET is required for the s3 blob driver")
		}
	default:
		return fmt.Errorf("unknown BLOB_DRIVER %q", c.Blob.Driver)
	}
	return nil
}

// loadKeys reads the RS256 key pair. Outside production a missing pair is
// replaced by a generated one.
func (c *Config) loadKeys(privatePath, publicPath string) error {
	privateKey, privErr := loadPrivateKey(privatePath)
	publicKey, pubErr := loadPublicKey(publicPath)
	if privErr == nil && pubErr == nil {
		c.Auth.PrivateKey = privateKey
		c.Auth.PublicKey = publicKey
		return nil
	}

	missing := errors.Is(privErr, os.ErrNotExist) && errors.Is(pubErr, os.ErrNotExist)
	if !missing || c.IsProduction() {
		return fmt.Errorf("load signing keys: %w", errors.Join(privErr, pubErr))
	}

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return fmt.Errorf("generate signing key: %w", err)
	}
	c.Auth.PrivateKey = key
	c.Auth.PublicKey = &key.PublicKey
	c.Auth.EphemeralKeys = true
	return nil
}

func loadPrivateKey(path string) (*rsa.PrivateKey, error) {
	keyData, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return jwt.ParseRSAPrivateKeyFromPEM(keyData)
}

func loadPublicKey(path string) (*rsa.PublicKey, error) {
	keyData, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return jwt.ParseRSAPublicKeyFromPEM(keyData)
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value, exists := os.LookupEnv(key)
	if !exists || strings.TrimSpace(value) == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
