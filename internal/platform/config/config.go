package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config is the process configuration, sourced from environment
// variables.
type Config struct {
	ListenAddr string `env:"TAPVAULT_LISTEN_ADDR" envDefault:":8080"`
	UserID     string `env:"TAPVAULT_USER_ID" envDefault:"anonymous"`

	SQLitePath string `env:"TAPVAULT_SQLITE_PATH" envDefault:"./tapvault.db"`
	FileDir    string `env:"TAPVAULT_FILE_DIR" envDefault:"./data"`

	// Optional postgres mirror. Empty disables it.
	DBDSN string `env:"TAPVAULT_DB_DSN"`

	// Optional websocket host bridge. Empty falls back to log-only
	// publishing.
	BridgeURL string `env:"TAPVAULT_BRIDGE_URL"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
