package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by LoadConfig,
// e.g. CHATLINKS_SERVER_ADDR.
const EnvPrefix = "CHATLINKS"

// Config holds all configuration for the application.
// Values are read by viper from a config file or environment variables.
type Config struct {
	// ArchivePath is the archive file searched by the file backed server.
	ArchivePath string `mapstructure:"ARCHIVE_PATH" validate:"required"`
	// BadgerDBPath is the directory of the archive store.
	BadgerDBPath string `mapstructure:"BADGERDB_PATH" validate:"required"`
	// DefaultArchive is used by the server when a request names no archive.
	DefaultArchive string `mapstructure:"DEFAULT_ARCHIVE" validate:"required"`

	ServerAddr      string        `mapstructure:"SERVER_ADDR" validate:"required,hostname_port"`
	AllowedOrigin   string        `mapstructure:"ALLOWED_ORIGIN" validate:"omitempty,url"`
	ShutdownTimeout time.Duration `mapstructure:"SHUTDOWN_TIMEOUT" validate:"gt=0"`

	LogLevel  string `mapstructure:"LOG_LEVEL" validate:"oneof=panic fatal error warn warning info debug trace"`
	LogFormat string `mapstructure:"LOG_FORMAT" validate:"oneof=json text"`
}

var defaults = map[string]any{
	"ARCHIVE_PATH":     "message.json",
	"BADGERDB_PATH":    "./badger_data",
	"DEFAULT_ARCHIVE":  "default",
	"SERVER_ADDR":      "127.0.0.1:3000",
	"ALLOWED_ORIGIN":   "http://localhost:8080",
	"SHUTDOWN_TIMEOUT": 2 * time.Second,
	"LOG_LEVEL":        "info",
	"LOG_FORMAT":       "json",
}

// LoadConfig reads configuration from path/config.yaml, if present, and from
// CHATLINKS_* environment variables, on top of the defaults.
func LoadConfig(path string) (Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing file is fine, defaults and environment still apply.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := config.Validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}

// Validate checks every field of the configuration.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
