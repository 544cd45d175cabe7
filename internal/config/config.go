package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config is the process-wide configuration, loaded once at startup from the
// environment (with an optional .env file).
type Config struct {
	DiscordToken string `env:"DISCORD_TOKEN,required"`

	// OwnerID is the super-admin escape hatch: this user passes every
	// permission gate.
	OwnerID string `env:"OWNER_ID"`

	// HomeGuildID is where private-category commands are registered.
	HomeGuildID string `env:"HOME_GUILD_ID"`

	StorageDriver string `env:"STORAGE_DRIVER" envDefault:"flatfile"`
	StoragePath   string `env:"STORAGE_PATH" envDefault:"data/bottemplate.db.json"`

	DefaultCooldown time.Duration `env:"DEFAULT_COOLDOWN" envDefault:"3s"`
	PaginationTTL   time.Duration `env:"PAGINATION_TTL" envDefault:"5m"`
	PageSize        int           `env:"PAGE_SIZE" envDefault:"5"`

	SyncCommands bool `env:"SYNC_COMMANDS" envDefault:"true"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	LogFile  string `env:"LOG_FILE"`
}

// New loads configuration from .env (if present) and the environment.
func New() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found, using system environment")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	return cfg, nil
}

// IsOwner reports whether userID matches the configured owner.
func (c *Config) IsOwner(userID string) bool {
	return c.OwnerID != "" && c.OwnerID == userID
}
