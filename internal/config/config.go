package config

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	ModePolling = "polling"
	ModeWebhook = "webhook"

	StoreFile  = "file"
	StoreRedis = "redis"
	StoreMongo = "mongo"
)

type Config struct {
	Token       string `env:"TOKEN,required,notEmpty"`
	Admins      string `env:"ADMINS"`
	Title       string `env:"BOT_TITLE" envDefault:"meetbot"`
	Mode        string `env:"BOT_MODE" envDefault:"polling"`
	Debug       bool   `env:"BOT_DEBUG"`
	APIEndpoint string `env:"TELEGRAM_API_ENDPOINT"`

	WebhookURL    string `env:"WEBHOOK_URL"`
	WebhookSecret string `env:"WEBHOOK_SECRET"`

	HTTPEnabled bool     `env:"HTTP_ENABLED" envDefault:"true"`
	Port        string   `env:"HTTP_PORT" envDefault:"8080"`
	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"*"`
	RateLimit   string   `env:"RATE_LIMIT" envDefault:"60-M"`

	Store         string `env:"STORE" envDefault:"file"`
	EventsFile    string `env:"EVENTS_FILE" envDefault:"./events.json"`
	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
	RedisKey      string `env:"REDIS_KEY" envDefault:"meetbot:events"`

	MongoDBURI      string `env:"MONGODB_URI"`
	MongoDBPassword string `env:"MONGODB_PASSWORD"`
	MongoDBDatabase string `env:"MONGODB_DATABASE" envDefault:"meetbot"`

	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	Timezone    string `env:"TIMEZONE" envDefault:"Local"`
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if _, err := c.AdminIDs(); err != nil {
		return err
	}
	if _, err := c.Location(); err != nil {
		return err
	}

	switch c.Mode {
	case ModePolling:
	case ModeWebhook:
		if c.WebhookURL == "" {
			return fmt.Errorf("WEBHOOK_URL is required in webhook mode")
		}
		if !c.HTTPEnabled {
			return fmt.Errorf("HTTP_ENABLED must be true in webhook mode")
		}
	default:
		return fmt.Errorf("unsupported BOT_MODE: %s (expected polling, webhook)", c.Mode)
	}

	switch c.Store {
	case StoreFile, StoreRedis:
	case StoreMongo:
		if c.MongoDBURI == "" {
			return fmt.Errorf("MONGODB_URI is required for the mongo store")
		}
	default:
		return fmt.Errorf("unsupported STORE: %s (expected file, redis, mongo)", c.Store)
	}
	return nil
}

// AdminIDs parses the space separated ADMINS list.
func (c *Config) AdminIDs() ([]int64, error) {
	fields := strings.Fields(c.Admins)
	ids := make([]int64, 0, len(fields))
	for _, f := range fields {
		id, err := strconv.ParseInt(f, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid admin id %q in ADMINS", f)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Location resolves TIMEZONE; dates are entered, shown and expired in it.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}
