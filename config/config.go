package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	PhotoBackendLocal = "local"
	PhotoBackendS3    = "s3"

	EnvProduction = "production"
)

type Config struct {
	AppEnv   string
	HTTPHost string
	HTTPPort string
	GRPCHost string
	GRPCPort string

	DBDriver   string
	MySQLDSN   string
	SQLitePath string

	AccessCode      string
	AccessCookieTTL time.Duration

	ReadingsDefaultLimit int
	ReadingsMaxLimit     int

	Photos PhotoConfig

	GeminiAPIKey string
	GeminiModel  string

	LogLevel  string
	LogFormat string
}

type PhotoConfig struct {
	Backend       string
	LocalDir      string
	PublicBaseURL string
	MaxBytes      int64

	S3Bucket          string
	S3Region          string
	S3Endpoint        string
	S3Prefix          string
	S3AccessKeyID     string
	S3SecretAccessKey string
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignores error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:   getEnv("APP_ENV", "development"),
		HTTPHost: getEnv("HTTP_HOST", "0.0.0.0"),
		HTTPPort: getEnv("HTTP_PORT", "8080"),
		GRPCHost: getEnv("GRPC_HOST", "0.0.0.0"),
		GRPCPort: getEnv("GRPC_PORT", "9090"),

		DBDriver:   strings.ToLower(getEnv("DB_DRIVER", "mysql")),
		MySQLDSN:   os.Getenv("MYSQL_DSN"),
		SQLitePath: getEnv("SQLITE_PATH", "./data/glucose.db"),

		AccessCode:      os.Getenv("APP_ACCESS_CODE"),
		AccessCookieTTL: getDurationEnv("ACCESS_COOKIE_TTL", 30*24*time.Hour),

		ReadingsDefaultLimit: getIntEnv("READINGS_DEFAULT_LIMIT", 50),
		ReadingsMaxLimit:     getIntEnv("READINGS_MAX_LIMIT", 500),

		Photos: PhotoConfig{
			Backend:           strings.ToLower(getEnv("PHOTO_BACKEND", PhotoBackendLocal)),
			LocalDir:          getEnv("PHOTO_LOCAL_DIR", "./data/photos"),
			PublicBaseURL:     os.Getenv("PHOTO_PUBLIC_BASE_URL"),
			MaxBytes:          int64(getIntEnv("PHOTO_MAX_BYTES", 10<<20)),
			S3Bucket:          os.Getenv("S3_BUCKET"),
			S3Region:          getEnv("S3_REGION", "us-east-1"),
			S3Endpoint:        os.Getenv("S3_ENDPOINT"),
			S3Prefix:          os.Getenv("S3_PREFIX"),
			S3AccessKeyID:     os.Getenv("S3_ACCESS_KEY_ID"),
			S3SecretAccessKey: os.Getenv("S3_SECRET_ACCESS_KEY"),
		},

		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		GeminiModel:  os.Getenv("GEMINI_MODEL"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: strings.ToLower(getEnv("LOG_FORMAT", "json")),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.DBDriver {
	case "mysql":
		if c.MySQLDSN == "" {
			return errors.New("MYSQL_DSN environment variable is required")
		}
	case "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}

	switch c.Photos.Backend {
	case PhotoBackendLocal:
	case PhotoBackendS3:
		if c.Photos.S3Bucket == "" {
			return errors.New("S3_BUCKET environment variable is required")
		}
		if (c.Photos.S3AccessKeyID == "") != (c.Photos.S3SecretAccessKey == "") {
			return errors.New("S3_ACCESS_KEY_ID and S3_SECRET_ACCESS_KEY must be set together")
		}
	default:
		return fmt.Errorf("unsupported PHOTO_BACKEND %q", c.Photos.Backend)
	}

	switch c.LogFormat {
	case "json", "text":
	default:
		return fmt.Errorf("unsupported LOG_FORMAT %q", c.LogFormat)
	}

	if c.ReadingsMaxLimit <= 0 || c.ReadingsDefaultLimit <= 0 {
		return errors.New("readings limits must be greater than 0")
	}
	if c.ReadingsDefaultLimit > c.ReadingsMaxLimit {
		return errors.New("READINGS_DEFAULT_LIMIT must not exceed READINGS_MAX_LIMIT")
	}
	if c.Photos.MaxBytes <= 0 {
		return errors.New("PHOTO_MAX_BYTES must be greater than 0")
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == EnvProduction
}

// DetectionEnabled reports whether a vision model is configured.
func (c *Config) DetectionEnabled() bool {
	return c.GeminiAPIKey != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if minutes, err := strconv.Atoi(value); err == nil {
			return time.Duration(minutes) * time.Minute
		}
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
