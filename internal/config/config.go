package config

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

var (
	once sync.Once
	// Logger is the global logger instance shared across commands.
	Logger = logrus.New()
)

// ConfigureLogging sets up the shared logger from configuration and returns
// it.
func ConfigureLogging(cfg *Config) *logrus.Logger {
	levelStr := "info"
	formatStr := "text"
	if cfg != nil {
		if cfg.Log.Level != "" {
			levelStr = cfg.Log.Level
		}
		if cfg.Log.Format != "" {
			formatStr = cfg.Log.Format
		}
	}

	level, err := logrus.ParseLevel(strings.ToLower(levelStr))
	if err != nil {
		Logger.Warnf("Invalid log level '%s', using 'info'", levelStr)
		level = logrus.InfoLevel
	}
	Logger.SetLevel(level)

	if strings.ToLower(formatStr) == "json" {
		Logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		Logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return Logger
}

// LoadEnv loads environment variables from a .env file if one exists in the
// working directory or the project root.
func LoadEnv() {
	once.Do(func() {
		envFile := ".env"
		if _, err := os.Stat(envFile); os.IsNotExist(err) {
			envFile = filepath.Join("..", ".env")
			if _, err := os.Stat(envFile); os.IsNotExist(err) {
				return
			}
		}

		if err := godotenv.Load(envFile); err != nil {
			Logger.Warnf("Error loading .env file: %v", err)
		}
	})
}

// GetEnv retrieves an environment variable with a fallback value if not set.
func GetEnv(key, fallback string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	return value
}
