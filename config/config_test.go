package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

var configKeys = []string{
	"APP_ENV", "HTTP_HOST", "HTTP_PORT", "GRPC_HOST", "GRPC_PORT",
	"DB_DRIVER", "MYSQL_DSN", "SQLITE_PATH",
	"APP_ACCESS_CODE", "ACCESS_COOKIE_TTL",
	"READINGS_DEFAULT_LIMIT", "READINGS_MAX_LIMIT",
	"PHOTO_BACKEND", "PHOTO_LOCAL_DIR", "PHOTO_PUBLIC_BASE_URL", "PHOTO_MAX_BYTES",
	"S3_BUCKET", "S3_REGION", "S3_ENDPOINT", "S3_PREFIX", "S3_ACCESS_KEY_ID", "S3_SECRET_ACCESS_KEY",
	"GEMINI_API_KEY", "GEMINI_MODEL",
	"LOG_LEVEL", "LOG_FORMAT",
}

// clearEnv blanks every key Load reads so ambient variables do not leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configKeys {
		t.Setenv(key, "")
	}
}

func chdirTemp(t *testing.T) string {
	t.Helper()

	origDir, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd failed: %v", err)
	}
	tmp := t.TempDir()
	if err := os.Chdir(tmp); err != nil {
		t.Fatalf("chdir failed: %v", err)
	}
	t.Cleanup(func() {
		_ = os.Chdir(origDir)
	})
	return tmp
}

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("TEST_STRING", "value")
	if got := getEnv("TEST_STRING", "default"); got != "value" {
		t.Fatalf("expected value, got %q", got)
	}
	if got := getEnv("MISSING_STRING", "default"); got != "default" {
		t.Fatalf("expected default, got %q", got)
	}

	t.Setenv("TEST_DURATION", "30")
	if got := getDurationEnv("TEST_DURATION", 5*time.Minute); got != 30*time.Minute {
		t.Fatalf("expected 30m, got %v", got)
	}
	t.Setenv("TEST_DURATION", "invalid")
	if got := getDurationEnv("TEST_DURATION", 5*time.Minute); got != 5*time.Minute {
		t.Fatalf("expected default duration, got %v", got)
	}

	t.Setenv("TEST_INT", "42")
	if got := getIntEnv("TEST_INT", 5); got != 42 {
		t.Fatalf("expected 42, got %d", got)
	}
	t.Setenv("TEST_INT", "invalid")
	if got := getIntEnv("TEST_INT", 5); got != 5 {
		t.Fatalf("expected default int, got %d", got)
	}
}

func TestLoadRequiresMySQLDSN(t *testing.T) {
	clearEnv(t)
	chdirTemp(t)

	if cfg, err := Load(); err == nil || cfg != nil {
		t.Fatalf("expected error when MYSQL_DSN is missing")
	}
}

func TestLoadUsesDefaults(t *testing.T) {
	clearEnv(t)
	chdirTemp(t)
	t.Setenv("MYSQL_DSN", "user:pass@tcp(localhost:3306)/glucose?parseTime=true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.HTTPPort != "8080" || cfg.GRPCPort != "9090" || cfg.DBDriver != "mysql" {
		t.Fatalf("unexpected defaults: %s %s %s", cfg.HTTPPort, cfg.GRPCPort, cfg.DBDriver)
	}
	if cfg.AccessCookieTTL != 30*24*time.Hour {
		t.Fatalf("unexpected cookie ttl %v", cfg.AccessCookieTTL)
	}
	if cfg.ReadingsDefaultLimit != 50 || cfg.ReadingsMaxLimit != 500 {
		t.Fatalf("unexpected limits %d %d", cfg.ReadingsDefaultLimit, cfg.ReadingsMaxLimit)
	}
	if cfg.Photos.Backend != PhotoBackendLocal || cfg.Photos.MaxBytes != 10<<20 {
		t.Fatalf("unexpected photo config %+v", cfg.Photos)
	}
	if cfg.AccessCode != "" || cfg.DetectionEnabled() || cfg.IsProduction() {
		t.Fatalf("expected access, detection and production to be off by default")
	}
}

func TestLoadSQLite(t *testing.T) {
	clearEnv(t)
	chdirTemp(t)
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("SQLITE_PATH", "/var/lib/glucose/glucose.db")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.DBDriver != "sqlite" || cfg.SQLitePath != "/var/lib/glucose/glucose.db" {
		t.Fatalf("unexpected db config %s %s", cfg.DBDriver, cfg.SQLitePath)
	}
}

func TestLoadSuccess(t *testing.T) {
	clearEnv(t)
	chdirTemp(t)
	t.Setenv("APP_ENV", "production")
	t.Setenv("MYSQL_DSN", "user:pass@tcp(db:3306)/glucose?parseTime=true")
	t.Setenv("HTTP_PORT", "8081")
	t.Setenv("GRPC_PORT", "9091")
	t.Setenv("APP_ACCESS_CODE", "open-sesame")
	t.Setenv("ACCESS_COOKIE_TTL", "60")
	t.Setenv("READINGS_DEFAULT_LIMIT", "20")
	t.Setenv("READINGS_MAX_LIMIT", "100")
	t.Setenv("PHOTO_BACKEND", "s3")
	t.Setenv("S3_BUCKET", "glucose-photos")
	t.Setenv("S3_PREFIX", "readings")
	t.Setenv("GEMINI_API_KEY", "key")
	t.Setenv("LOG_FORMAT", "text")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.HTTPPort != "8081" || cfg.GRPCPort != "9091" {
		t.Fatalf("unexpected ports: %s %s", cfg.HTTPPort, cfg.GRPCPort)
	}
	if !cfg.IsProduction() || cfg.AccessCode != "open-sesame" || cfg.AccessCookieTTL != time.Hour {
		t.Fatalf("unexpected access config: %v %q %v", cfg.IsProduction(), cfg.AccessCode, cfg.AccessCookieTTL)
	}
	if cfg.ReadingsDefaultLimit != 20 || cfg.ReadingsMaxLimit != 100 {
		t.Fatalf("unexpected limits %d %d", cfg.ReadingsDefaultLimit, cfg.ReadingsMaxLimit)
	}
	if cfg.Photos.Backend != PhotoBackendS3 || cfg.Photos.S3Bucket != "glucose-photos" || cfg.Photos.S3Region != "us-east-1" {
		t.Fatalf("unexpected photo config %+v", cfg.Photos)
	}
	if !cfg.DetectionEnabled() || cfg.LogFormat != "text" {
		t.Fatalf("unexpected detection/log config")
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]map[string]string{
		"unknown driver":       {"DB_DRIVER": "postgres"},
		"unknown backend":      {"DB_DRIVER": "sqlite", "PHOTO_BACKEND": "ftp"},
		"s3 without bucket":    {"DB_DRIVER": "sqlite", "PHOTO_BACKEND": "s3"},
		"half s3 credentials":  {"DB_DRIVER": "sqlite", "PHOTO_BACKEND": "s3", "S3_BUCKET": "b", "S3_ACCESS_KEY_ID": "id"},
		"unknown log format":   {"DB_DRIVER": "sqlite", "LOG_FORMAT": "xml"},
		"default above max":    {"DB_DRIVER": "sqlite", "READINGS_DEFAULT_LIMIT": "600"},
		"non-positive limit":   {"DB_DRIVER": "sqlite", "READINGS_MAX_LIMIT": "0"},
		"non-positive payload": {"DB_DRIVER": "sqlite", "PHOTO_MAX_BYTES": "-1"},
	}

	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			chdirTemp(t)
			for key, value := range env {
				t.Setenv(key, value)
			}
			if cfg, err := Load(); err == nil || cfg != nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestLoadRespectsEnvFileLocation(t *testing.T) {
	clearEnv(t)
	tmp := chdirTemp(t)

	// godotenv does not override variables that are already set, even when blank.
	for _, key := range []string{"DB_DRIVER", "APP_ACCESS_CODE", "HTTP_PORT"} {
		_ = os.Unsetenv(key)
	}

	envPath := filepath.Join(tmp, ".env")
	if err := os.WriteFile(envPath, []byte("DB_DRIVER=sqlite\nAPP_ACCESS_CODE=envfile-code\nHTTP_PORT=9099\n"), 0600); err != nil {
		t.Fatalf("write .env failed: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.AccessCode != "envfile-code" || cfg.HTTPPort != "9099" || cfg.DBDriver != "sqlite" {
		t.Fatalf("expected env file values, got %s %s %s", cfg.AccessCode, cfg.HTTPPort, cfg.DBDriver)
	}
}
