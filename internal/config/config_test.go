package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv(configDirEnvKey, dir)
	if err := os.WriteFile(filepath.Join(dir, configFileName), []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv(configDirEnvKey, t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.APIURL != DefaultAPIURL {
		t.Errorf("api url %q", cfg.APIURL)
	}
	if cfg.Limits.Retention.Duration != DefaultRetention {
		t.Errorf("retention %v", cfg.Limits.Retention.Duration)
	}
	if cfg.Limits.MaxFilesPerGroup != DefaultMaxFilesPerGroup {
		t.Errorf("max files %d", cfg.Limits.MaxFilesPerGroup)
	}
	if filepath.Base(cfg.DBPath) != DefaultDBFileName {
		t.Errorf("db path %q", cfg.DBPath)
	}
}

func TestLoadFromFile(t *testing.T) {
	writeConfig(t, `
api_url = "http://127.0.0.1:9999"
db_path = "/tmp/custom.db"
share_base_url = "https://share.example.com"
log_level = "debug"

[limits]
retention = "2h30m"
sweep_interval = "1m"
max_files_per_group = 5
max_bytes_per_file = 1024
max_bytes_per_group = 4096
compression_level = 9
`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.APIURL != "http://127.0.0.1:9999" {
		t.Errorf("api url %q", cfg.APIURL)
	}
	if cfg.DBPath != "/tmp/custom.db" {
		t.Errorf("db path %q", cfg.DBPath)
	}
	if cfg.Limits.Retention.Duration != 2*time.Hour+30*time.Minute {
		t.Errorf("retention %v", cfg.Limits.Retention.Duration)
	}
	if cfg.Limits.SweepInterval.Duration != time.Minute {
		t.Errorf("sweep interval %v", cfg.Limits.SweepInterval.Duration)
	}
	if cfg.Limits.MaxFilesPerGroup != 5 || cfg.Limits.MaxBytesPerFile != 1024 || cfg.Limits.MaxBytesPerGroup != 4096 {
		t.Errorf("limits %+v", cfg.Limits)
	}
	if cfg.Limits.CompressionLevel != 9 {
		t.Errorf("compression level %d", cfg.Limits.CompressionLevel)
	}
}

func TestEnvOverrides(t *testing.T) {
	writeConfig(t, `api_url = "http://file-config:1111"`)
	t.Setenv(apiURLEnvKey, "http://env-wins:2222")
	t.Setenv(dbPathEnvKey, "/tmp/env.db")
	t.Setenv(shareBaseURLEnvKey, "https://env-share.example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.APIURL != "http://env-wins:2222" {
		t.Errorf("api url %q", cfg.APIURL)
	}
	if cfg.DBPath != "/tmp/env.db" {
		t.Errorf("db path %q", cfg.DBPath)
	}
	if cfg.ShareBaseURL != "https://env-share.example.com" {
		t.Errorf("share base url %q", cfg.ShareBaseURL)
	}
}

func TestInvalidLimitsFallBackToDefaults(t *testing.T) {
	writeConfig(t, `
[limits]
max_files_per_group = -3
compression_level = 42
`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Limits.MaxFilesPerGroup != DefaultMaxFilesPerGroup {
		t.Errorf("max files %d", cfg.Limits.MaxFilesPerGroup)
	}
	if cfg.Limits.CompressionLevel != DefaultCompressionLevel {
		t.Errorf("compression level %d", cfg.Limits.CompressionLevel)
	}
}

func TestShareURLBase(t *testing.T) {
	cfg := Config{APIURL: "http://127.0.0.1:7448/"}
	if got := cfg.ShareURLBase(); got != "http://127.0.0.1:7448" {
		t.Errorf("fallback base %q", got)
	}

	cfg.ShareBaseURL = "https://share.example.com/"
	if got := cfg.ShareURLBase(); got != "https://share.example.com" {
		t.Errorf("configured base %q", got)
	}
}

func TestDurationUnmarshal(t *testing.T) {
	var d Duration
	if err := d.UnmarshalText([]byte("36h")); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if d.Duration != 36*time.Hour {
		t.Errorf("duration %v", d.Duration)
	}
	if err := d.UnmarshalText([]byte("not-a-duration")); err == nil {
		t.Error("expected error for invalid duration")
	}
}
