// Package config provides Viper-based hierarchical configuration management
// plus the .env/logging bootstrap shared by all commands.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration.
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	CSV struct {
		Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
	} `mapstructure:"csv" yaml:"csv"`

	Forecast struct {
		// StartMonth is the default forecast start ("2006-01") used when
		// a command or request does not supply one.
		StartMonth string `mapstructure:"start_month" yaml:"start_month"`
	} `mapstructure:"forecast" yaml:"forecast"`

	Server struct {
		ListenAddress  string `mapstructure:"listen_address" yaml:"listen_address"`
		MaxUploadBytes int64  `mapstructure:"max_upload_bytes" yaml:"max_upload_bytes"`
	} `mapstructure:"server" yaml:"server"`

	History struct {
		Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
		Path    string `mapstructure:"path" yaml:"path"`
	} `mapstructure:"history" yaml:"history"`
}

// Delimiter returns the configured CSV delimiter as a rune.
func (c *Config) Delimiter() rune {
	if c.CSV.Delimiter == "" {
		return ','
	}
	return []rune(c.CSV.Delimiter)[0]
}

// InitializeConfig initializes Viper configuration with hierarchical
// loading: defaults, then an optional config file, then LOANFC_* env vars.
func InitializeConfig() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.loan-forecast")
	v.AddConfigPath(".loan-forecast")
	v.AddConfigPath(".")

	v.SetEnvPrefix("LOANFC")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Log the error but don't fail - continue with defaults and env vars
			Logger.Warnf("Error reading config file %s: %v", v.ConfigFileUsed(), err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("csv.delimiter", ",")

	v.SetDefault("forecast.start_month", "")

	v.SetDefault("server.listen_address", ":8080")
	v.SetDefault("server.max_upload_bytes", int64(10*1024*1024))

	v.SetDefault("history.enabled", false)
	v.SetDefault("history.path", "loan-forecast-history.db")
}

func validateConfig(config *Config) error {
	switch strings.ToLower(config.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("unsupported log level: %s", config.Log.Level)
	}

	switch strings.ToLower(config.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("unsupported log format: %s", config.Log.Format)
	}

	if len([]rune(config.CSV.Delimiter)) > 1 {
		return fmt.Errorf("csv delimiter must be a single character, got %q", config.CSV.Delimiter)
	}

	if config.Server.MaxUploadBytes <= 0 {
		return fmt.Errorf("server.max_upload_bytes must be positive")
	}

	return nil
}
