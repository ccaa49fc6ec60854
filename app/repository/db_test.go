package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/vibast-solutions/ms-go-glucose/app/repository"

	"github.com/go-sql-driver/mysql"
)

func TestNormalizeMySQLDSN_ForcesParseTimeAndUTC(t *testing.T) {
	cases := []string{
		"user:pass@tcp(db:3306)/glucose",
		"user:pass@tcp(db:3306)/glucose?parseTime=false&loc=Local",
		"user:pass@tcp(db:3306)/glucose?parseTime=true&charset=utf8mb4",
	}

	for _, dsn := range cases {
		normalized, err := repository.NormalizeMySQLDSN(dsn)
		if err != nil {
			t.Fatalf("normalize %q failed: %v", dsn, err)
		}
		cfg, err := mysql.ParseDSN(normalized)
		if err != nil {
			t.Fatalf("normalized dsn %q does not parse: %v", normalized, err)
		}
		if !cfg.ParseTime || cfg.Loc != time.UTC {
			t.Fatalf("expected parseTime and UTC for %q, got %v %v", dsn, cfg.ParseTime, cfg.Loc)
		}
		if cfg.DBName != "glucose" || cfg.Addr != "db:3306" || cfg.User != "user" {
			t.Fatalf("unexpected connection fields in %q", normalized)
		}
	}
}

func TestNormalizeMySQLDSN_RejectsInvalid(t *testing.T) {
	if _, err := repository.NormalizeMySQLDSN("not a dsn"); err == nil {
		t.Fatalf("expected error for invalid dsn")
	}
}

func TestOpen_RejectsInvalidMySQLDSN(t *testing.T) {
	db, err := repository.Open(context.Background(), repository.DBConfig{
		Driver:   repository.DriverMySQL,
		MySQLDSN: "not a dsn",
	})
	if err == nil || db != nil {
		t.Fatalf("expected open to fail before connecting")
	}
}
