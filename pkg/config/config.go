package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	// Discord
	DiscordToken string   `validate:"required"`
	GuildID      string   // empty registers slash commands globally
	GachaBotID   string   `validate:"required"`
	AdminUserIDs []string `validate:"required,min=1,dive,required"`

	// Storage
	DatabaseURL string `validate:"required"`

	// Keepalive HTTP server
	Port         string
	IsProduction bool

	// Confirmation matching
	ConfirmEmoji   string `validate:"required"`
	ConfirmKeyword string `validate:"required"`

	// Background sweeps
	PendingTTL           time.Duration
	ExpirySweepInterval  time.Duration
	AccrualSweepInterval time.Duration
}

// LoadConfig loads configuration from environment variables and .env file if present.
// Missing required values are returned as an error so the process can exit
// before any connection is attempted.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("DISCORD_TOKEN", "")
	viper.SetDefault("GUILD_ID", "")
	viper.SetDefault("GACHA_BOT_ID", "")
	viper.SetDefault("ADMIN_USER_IDS", "")
	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("CONFIRM_EMOJI", "✅")
	viper.SetDefault("CONFIRM_KEYWORD", "kakera")
	viper.SetDefault("PENDING_TTL", "10m")
	viper.SetDefault("EXPIRY_SWEEP_INTERVAL", "1m")
	viper.SetDefault("ACCRUAL_SWEEP_INTERVAL", "1h")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DiscordToken = viper.GetString("DISCORD_TOKEN")
	cfg.GuildID = viper.GetString("GUILD_ID")
	cfg.GachaBotID = viper.GetString("GACHA_BOT_ID")
	cfg.AdminUserIDs = splitIDList(viper.GetString("ADMIN_USER_IDS"))
	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.ConfirmEmoji = viper.GetString("CONFIRM_EMOJI")
	cfg.ConfirmKeyword = viper.GetString("CONFIRM_KEYWORD")

	cfg.PendingTTL = parseDurationOrDefault("PENDING_TTL", 10*time.Minute)
	cfg.ExpirySweepInterval = parseDurationOrDefault("EXPIRY_SWEEP_INTERVAL", time.Minute)
	cfg.AccrualSweepInterval = parseDurationOrDefault("ACCRUAL_SWEEP_INTERVAL", time.Hour)

	if cfg.GuildID == "" {
		log.Println("Warning: GUILD_ID not set. Slash commands will be registered globally.")
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// splitIDList splits a comma-separated list of Discord user IDs, dropping
// empty entries and surrounding whitespace.
func splitIDList(raw string) []string {
	parts := strings.Split(raw, ",")
	ids := make([]string, 0, len(parts))
	for _, p := range parts {
		if id := strings.TrimSpace(p); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

func parseDurationOrDefault(key string, fallback time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, fallback)
		}
		return fallback
	}
	if d <= 0 {
		log.Printf("Warning: Non-positive value for %s ('%s'). Defaulting to %s.\n", key, raw, fallback)
		return fallback
	}
	return d
}
