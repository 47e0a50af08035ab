package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadAndValidate(t *testing.T) {
	path := writeConfig(t, `
ssb:
  api_base_url: "https://data.ssb.no/api/v0/en"
  timeout: 10s

server:
  addr: "127.0.0.1:9090"

storage:
  backend: sqlite
  sqlite_path: "./data/test.db"
  max_history: 50

telegram:
  bot_token: "test_token"
  chat_id: "12345"
  enabled: true
  digest_cron: "0 8 * * 1"

logging:
  level: "debug"
  format: "json"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.SSB.APIBaseURL != "https://data.ssb.no/api/v0/en" {
		t.Errorf("Unexpected API URL: %s", cfg.SSB.APIBaseURL)
	}
	if cfg.SSB.Timeout != 10*time.Second {
		t.Errorf("Unexpected timeout: %v", cfg.SSB.Timeout)
	}
	if cfg.SSB.Table != "07241" {
		t.Errorf("Expected default table 07241, got %s", cfg.SSB.Table)
	}
	if cfg.SSB.ContentsCode != "KvPris" {
		t.Errorf("Expected default contents code KvPris, got %s", cfg.SSB.ContentsCode)
	}
	if cfg.Storage.Backend != "sqlite" || cfg.Storage.MaxHistory != 50 {
		t.Errorf("Unexpected storage config: %+v", cfg.Storage)
	}
	if cfg.Chart.Width != 500 || cfg.Chart.Height != 300 || cfg.Chart.SeriesLabel != "NOK" {
		t.Errorf("Unexpected chart defaults: %+v", cfg.Chart)
	}

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Defaults should validate: %v", err)
	}
	if cfg.Storage.Backend != "file" || cfg.Server.Addr != ":8080" {
		t.Errorf("Unexpected defaults: %+v %+v", cfg.Storage, cfg.Server)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("BOLIGPRIS_SERVER_ADDR", ":7070")
	t.Setenv("BOLIGPRIS_SSB_TIMEOUT", "5s")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Addr != ":7070" {
		t.Errorf("Expected env override for server.addr, got %s", cfg.Server.Addr)
	}
	if cfg.SSB.Timeout != 5*time.Second {
		t.Errorf("Expected env override for ssb.timeout, got %v", cfg.SSB.Timeout)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Expected error for missing config file")
	}
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "empty api url",
			mutate:  func(c *Config) { c.SSB.APIBaseURL = "" },
			wantErr: "ssb.api_base_url",
		},
		{
			name:    "zero timeout",
			mutate:  func(c *Config) { c.SSB.Timeout = 0 },
			wantErr: "ssb.timeout",
		},
		{
			name:    "unknown backend",
			mutate:  func(c *Config) { c.Storage.Backend = "redis" },
			wantErr: "storage.backend",
		},
		{
			name:    "sqlite without path",
			mutate:  func(c *Config) { c.Storage.Backend = "sqlite"; c.Storage.SQLitePath = "" },
			wantErr: "storage.sqlite_path",
		},
		{
			name:    "negative history cap",
			mutate:  func(c *Config) { c.Storage.MaxHistory = -1 },
			wantErr: "storage.max_history",
		},
		{
			name:    "telegram without token",
			mutate:  func(c *Config) { c.Telegram.Enabled = true; c.Telegram.ChatID = "1" },
			wantErr: "telegram.bot_token",
		},
		{
			name: "bad digest cron",
			mutate: func(c *Config) {
				c.Telegram = TelegramConfig{Enabled: true, BotToken: "t", ChatID: "1", DigestCron: "every monday"}
			},
			wantErr: "telegram.digest_cron",
		},
		{
			name:    "bad chart format",
			mutate:  func(c *Config) { c.Chart.Format = "gif" },
			wantErr: "chart.format",
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: "logging.level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load("")
			if err != nil {
				t.Fatal(err)
			}
			tt.mutate(cfg)
			err = cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, expected mention of %s", err, tt.wantErr)
			}
		})
	}
}

func TestLoadExampleConfig(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "configs", "config.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("example config is invalid: %v", err)
	}
	if cfg.SSB.Table != "07241" || cfg.Storage.Backend != "file" {
		t.Errorf("unexpected example values: table=%s backend=%s", cfg.SSB.Table, cfg.Storage.Backend)
	}
}
