package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

var DefaultEnvConfig *envConfig

type envConfig struct {
	// server config
	SERVER_HOST string
	SERVER_PORT int
	// app data directory override, empty means the platform default
	APPDIR string
	// logger config
	LOG_FILE_PATH string
}

// LoadEnvConfig reads a .env file when present and fills the default
// config from the environment.
func LoadEnvConfig() error {
	// a missing .env file is fine, the environment still applies
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return err
	}

	DefaultEnvConfig = &envConfig{
		SERVER_HOST:   getEnvString("SERVER_HOST", "0.0.0.0"),
		SERVER_PORT:   getEnvInt("SERVER_PORT", 8080),
		APPDIR:        getEnvString("XLSXREPORT_APPDIR", ""),
		LOG_FILE_PATH: getEnvString("LOG_FILE_PATH", ""),
	}
	return nil
}

func getEnvString(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return fallback
}
