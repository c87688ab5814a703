package config

import (
	"testing"
	"time"

	"gorm.io/gorm/logger"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "DB_DRIVER", "DATABASE_DSN", "REDIS_ADDR", "APP_ENV", "DEV", "DB_LOG_LEVEL"} {
		t.Setenv(k, "")
	}
	cfg := Load()
	if cfg.Server.Port != "8080" {
		t.Fatalf("port = %q", cfg.Server.Port)
	}
	if cfg.Database.Driver != "postgres" {
		t.Fatalf("driver = %q", cfg.Database.Driver)
	}
	if !cfg.App.Dev {
		t.Fatalf("expected dev by default")
	}
	if cfg.Database.LogLevel != logger.Warn {
		t.Fatalf("log level = %v", cfg.Database.LogLevel)
	}
	if cfg.Cache.RedisAddr != "" {
		t.Fatalf("redis should be disabled by default")
	}
	if cfg.Server.ShutdownTimeout != 10*time.Second {
		t.Fatalf("shutdown timeout = %v", cfg.Server.ShutdownTimeout)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("APP_ENV", "production")
	t.Setenv("DEV", "")
	t.Setenv("MIGRATIONS", "yes")
	t.Setenv("DB_LOG_LEVEL", "info")
	t.Setenv("SERVER_SHUTDOWN_TIMEOUT", "3s")
	t.Setenv("DB_MAX_OPEN_CONNS", "not-a-number")

	cfg := Load()
	if cfg.Server.Port != "9000" {
		t.Fatalf("port = %q", cfg.Server.Port)
	}
	if cfg.Database.Driver != "sqlite" {
		t.Fatalf("driver = %q", cfg.Database.Driver)
	}
	if cfg.App.Dev {
		t.Fatalf("production should not be dev")
	}
	if !cfg.App.Migrations {
		t.Fatalf("expected migrations enabled")
	}
	if cfg.Database.LogLevel != logger.Info {
		t.Fatalf("log level = %v", cfg.Database.LogLevel)
	}
	if cfg.Server.ShutdownTimeout != 3*time.Second {
		t.Fatalf("shutdown = %v", cfg.Server.ShutdownTimeout)
	}
	if cfg.Database.MaxOpenConns != 50 {
		t.Fatalf("invalid int should fall back, got %d", cfg.Database.MaxOpenConns)
	}
}

func TestDSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", DBName: "n", SSLMode: "disable"}
	if got := d.DSN(); got != "host=db port=5432 user=u password=p dbname=n sslmode=disable" {
		t.Fatalf("dsn = %q", got)
	}
	d.RawDSN = "postgres://x@y/z"
	if d.DSN() != "postgres://x@y/z" {
		t.Fatalf("raw dsn should win")
	}
}
