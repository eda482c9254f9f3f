package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"equipment-logbook/internal/email"
)

const DEFAULT_EXPORT_PREFIX = "logbook"
const QR_IMAGE_SIZE = 512

// FallbackAdmin is the statically configured principal. It is checked before
// the admin registry and never stored.
type FallbackAdmin struct {
	Username string `mapstructure:"username"`
	// Clear text password, hashed at startup. Prefer PasswordHash.
	Password string `mapstructure:"password"`
	// bcrypt hash of the fallback password.
	PasswordHash string `mapstructure:"password_hash"`
}

type Notify struct {
	// Addresses receiving a message for every submitted request. Empty disables notifications.
	Recipients []string      `mapstructure:"recipients"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

type Export struct {
	// Filename prefix, the export date is appended: <prefix>-YYYY-MM-DD.csv
	Filename string `mapstructure:"filename"`
	// Prepend a UTF-8 byte order mark for spreadsheet applications.
	BOM bool `mapstructure:"bom"`
}

type Config struct {
	// Secret key for signing tokens. Must be set in production.
	Secret string `mapstructure:"secret"`
	// TTL for admin session tokens in seconds
	TokenTTL uint   `mapstructure:"token_ttl"`
	LogLevel string `mapstructure:"log_level"`
	Listen   string `mapstructure:"listen"`

	// Comma separated list of allowed CIDR networks. Empty means allow all.
	AllowedNetworks string   `mapstructure:"allowed_networks"`
	CORSOrigins     []string `mapstructure:"cors_origins"`

	// IANA zone deciding what "today" means for bulk approval. Empty means local time.
	Timezone string `mapstructure:"timezone"`

	// Where session nonces live: "memory" or "sql".
	NonceStore           string        `mapstructure:"nonce_store"`
	NonceJanitorInterval time.Duration `mapstructure:"nonce_janitor_interval"`

	LoginRatePerMinute float64 `mapstructure:"login_rate_per_minute"`
	LoginBurst         int     `mapstructure:"login_burst"`

	FallbackAdmin FallbackAdmin `mapstructure:"fallback_admin"`

	Storage Storage `mapstructure:"storage"`

	Notify Notify           `mapstructure:"notify"`
	Email  email.SMTPConfig `mapstructure:"email"`
	Export Export           `mapstructure:"export"`

	location *time.Location
}

var Cfg *Config

// Check if running in Docker container by checking for the presence of /.dockerenv file
func runningInDocker() bool {
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true
	}
	return false
}

func getConfigPath() string {
	if runningInDocker() {
		return "/app/instance"
	}
	return "./instance"
}

// LoadConfig reads configuration from config.yaml and environment variables.
// Nested keys map to environment variables with "_", e.g. STORAGE_SQLITE_PATH.
func LoadConfig(configFile ...string) (*Config, error) {
	var cfg Config

	v := viper.New()
	v.SetConfigName("config")
	v.AddConfigPath(getConfigPath())
	v.AddConfigPath(".")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	for _, path := range configFile {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("unable to read config file: %w", err)
		}
		v.SetConfigFile(path)
	}

	for k, val := range Defaults() {
		v.SetDefault(k, val)
	}

	v.AutomaticEnv()

	// config.yaml in the search path is optional.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("unable to read config file: %w", err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}

	// Warn if secret is missing - this is a critical security setting for production
	if cfg.Secret == "" {
		if os.Getenv("GIN_MODE") == "release" {
			return nil, fmt.Errorf("SECRET configuration variable is required in production")
		}
		slog.Warn("Secret is not set. Do not use in production.")
	}

	return &cfg, nil
}

func (cfg *Config) normalize() error {
	loc := time.Local
	if cfg.Timezone != "" {
		l, err := time.LoadLocation(cfg.Timezone)
		if err != nil {
			return fmt.Errorf("invalid timezone %q: %w", cfg.Timezone, err)
		}
		loc = l
	}
	cfg.location = loc

	cfg.Notify.Recipients = splitList(cfg.Notify.Recipients)
	cfg.CORSOrigins = splitList(cfg.CORSOrigins)

	if cfg.Export.Filename == "" {
		cfg.Export.Filename = DEFAULT_EXPORT_PREFIX
	}

	// Convert relative sqlite path to absolute instance folder
	if cfg.Storage.SQLite != nil {
		path := cfg.Storage.SQLite.Path
		if path != "" && path != ":memory:" && !strings.HasPrefix(path, "file:") && !os.IsPathSeparator(path[0]) {
			cfg.Storage.SQLite.Path = fmt.Sprintf("%s/%s", getConfigPath(), strings.TrimPrefix(path, "./"))
		}
	}
	return nil
}

// Location is the zone used for calendar-day comparisons.
func (cfg *Config) Location() *time.Location {
	if cfg.location == nil {
		return time.Local
	}
	return cfg.location
}

// splitList flattens comma separated values coming from environment variables.
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
