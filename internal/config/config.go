package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	DefaultAPIURL     = "http://127.0.0.1:7448"
	DefaultDBFileName = ".qshare.db"
	DefaultLogLevel   = "info"

	DefaultRetention        = 24 * time.Hour
	DefaultSweepInterval    = 5 * time.Minute
	DefaultMaxFilesPerGroup = 50
	DefaultMaxBytesPerFile  = int64(10 * 1024 * 1024)
	DefaultMaxBytesPerGroup = int64(100 * 1024 * 1024)
	DefaultCompressionLevel = 6

	configDirEnvKey      = "QSHARE_CONFIG_DIR"
	apiURLEnvKey         = "QSHARE_API_URL"
	dbPathEnvKey         = "QSHARE_DB"
	shareBaseURLEnvKey   = "QSHARE_SHARE_BASE_URL"
	adminTokenHashEnvKey = "QSHARE_ADMIN_TOKEN_HASH"

	configFileName = ".qshare.toml"
)

// Duration wraps time.Duration so TOML values can be written as "24h".
type Duration struct {
	time.Duration
}

// UnmarshalText parses a Go duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	d.Duration = parsed
	return nil
}

// MarshalText renders the duration in Go syntax.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// LimitsConfig defines retention and ingestion limits.
type LimitsConfig struct {
	Retention        Duration `toml:"retention"`
	SweepInterval    Duration `toml:"sweep_interval"`
	MaxFilesPerGroup int      `toml:"max_files_per_group"`
	MaxBytesPerFile  int64    `toml:"max_bytes_per_file"`
	MaxBytesPerGroup int64    `toml:"max_bytes_per_group"`
	CompressionLevel int      `toml:"compression_level"`
}

// Config defines runtime configuration for qshare.
type Config struct {
	APIURL         string       `toml:"api_url"`
	DBPath         string       `toml:"db_path"`
	ShareBaseURL   string       `toml:"share_base_url"`
	LogLevel       string       `toml:"log_level"`
	AdminTokenHash string       `toml:"admin_token_hash"`
	Limits         LimitsConfig `toml:"limits"`
}

// Default returns default configuration values.
func Default() Config {
	return Config{
		APIURL:   DefaultAPIURL,
		DBPath:   "",
		LogLevel: DefaultLogLevel,
		Limits: LimitsConfig{
			Retention:        Duration{DefaultRetention},
			SweepInterval:    Duration{DefaultSweepInterval},
			MaxFilesPerGroup: DefaultMaxFilesPerGroup,
			MaxBytesPerFile:  DefaultMaxBytesPerFile,
			MaxBytesPerGroup: DefaultMaxBytesPerGroup,
			CompressionLevel: DefaultCompressionLevel,
		},
	}
}

// Load reads config from the global file and applies env overrides.
func Load() (*Config, error) {
	cfg := Default()

	path, err := GlobalPath()
	if err == nil {
		if err := loadFileIfExists(path, &cfg); err != nil {
			return nil, err
		}
	}

	if cfg.DBPath == "" {
		if cwd, err := os.Getwd(); err == nil {
			cfg.DBPath = filepath.Join(cwd, DefaultDBFileName)
		}
	}

	if apiURL := os.Getenv(apiURLEnvKey); apiURL != "" {
		cfg.APIURL = apiURL
	}
	if dbPath := os.Getenv(dbPathEnvKey); dbPath != "" {
		cfg.DBPath = dbPath
	}
	if baseURL := os.Getenv(shareBaseURLEnvKey); baseURL != "" {
		cfg.ShareBaseURL = baseURL
	}
	if hash := os.Getenv(adminTokenHashEnvKey); hash != "" {
		cfg.AdminTokenHash = hash
	}

	cfg.normalizeLimits()

	return &cfg, nil
}

// GlobalPath returns the path to the global config file.
func GlobalPath() (string, error) {
	if dir := strings.TrimSpace(os.Getenv(configDirEnvKey)); dir != "" {
		return filepath.Join(dir, configFileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, configFileName), nil
}

// ShareURLBase returns the base URL used to build share links, falling
// back to the API URL when no dedicated frontend URL is configured.
func (c *Config) ShareURLBase() string {
	if strings.TrimSpace(c.ShareBaseURL) != "" {
		return strings.TrimRight(c.ShareBaseURL, "/")
	}
	return strings.TrimRight(c.APIURL, "/")
}

func loadFileIfExists(path string, cfg *Config) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if info.IsDir() {
		return nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) normalizeLimits() {
	if c.Limits.Retention.Duration <= 0 {
		c.Limits.Retention = Duration{DefaultRetention}
	}
	if c.Limits.SweepInterval.Duration <= 0 {
		c.Limits.SweepInterval = Duration{DefaultSweepInterval}
	}
	if c.Limits.MaxFilesPerGroup <= 0 {
		c.Limits.MaxFilesPerGroup = DefaultMaxFilesPerGroup
	}
	if c.Limits.MaxBytesPerFile <= 0 {
		c.Limits.MaxBytesPerFile = DefaultMaxBytesPerFile
	}
	if c.Limits.MaxBytesPerGroup <= 0 {
		c.Limits.MaxBytesPerGroup = DefaultMaxBytesPerGroup
	}
	if c.Limits.CompressionLevel < 0 || c.Limits.CompressionLevel > 9 {
		c.Limits.CompressionLevel = DefaultCompressionLevel
	}
}
