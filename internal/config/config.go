package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	ErrMissingBotToken = errors.New("BOT_TOKEN is required")
	ErrMissingChatID   = errors.New("TG_CHAT_ID is required")
	ErrInvalidInterval = errors.New("POLL_INTERVAL must be positive")
)

// DefaultAirdropURL is the Binance Alpha airdrop listing endpoint.
const DefaultAirdropURL = "https://www.binance.info/bapi/defi/v1/friendly/wallet-direct/buw/growth/query-alpha-airdrop"

type Config struct {
	// Env selects the extra .env file; see LoadEnvFiles.
	Env string `env:"APP_ENV" envDefault:"production"`

	// Telegram
	BotToken    string `env:"BOT_TOKEN"`
	ChatID      int64  `env:"TG_CHAT_ID"`
	AdminUserID int64  `env:"ADMIN_USER_ID"`

	// WeCom robot webhook, empty disables the side channel
	WebhookURL string `env:"WX_WEBHOOK_URL"`

	// Source
	AirdropURL   string        `env:"AIRDROP_API_URL"`
	PageRows     int           `env:"AIRDROP_PAGE_ROWS" envDefault:"20"`
	FetchTimeout time.Duration `env:"FETCH_TIMEOUT" envDefault:"15s"`

	// Proxy
	HTTPSProxy string `env:"HTTPS_PROXY"`
	HTTPProxy  string `env:"HTTP_PROXY"`

	// Polling
	PollInterval time.Duration `env:"POLL_INTERVAL" envDefault:"30s"`
	SendTimeout  time.Duration `env:"SEND_TIMEOUT" envDefault:"10s"`
	SeenCapacity int           `env:"SEEN_CAPACITY" envDefault:"0"`

	// Display
	UTCOffsetHours int `env:"DISPLAY_UTC_OFFSET_HOURS" envDefault:"8"`

	// Health server, 0 disables it
	HealthPort int `env:"HEALTH_PORT" envDefault:"8080"`

	Log Logger `envPrefix:"LOG_"`
}

// Logger configures the slog handler.
type Logger struct {
	Level  string `env:"LEVEL" envDefault:"info"`
	Format string `env:"FORMAT" envDefault:"text"`
}

// SlogLevel maps Level onto slog, unknown values fall back to info.
func (l Logger) SlogLevel() slog.Level {
	switch strings.ToLower(l.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error", "err":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// JSON reports whether the json handler was requested.
func (l Logger) JSON() bool {
	return strings.EqualFold(l.Format, "json")
}

// LoadEnvFiles loads .env and then the environment specific local file.
// Missing files are ignored and variables already set are never overridden.
func LoadEnvFiles(log *slog.Logger) {
	if err := godotenv.Load(".env"); err != nil {
		log.Debug("no .env file found")
	}

	file := ".env.production.local"
	if os.Getenv("APP_ENV") == "development" {
		file = ".env.development.local"
	}
	if err := godotenv.Load(file); err != nil {
		log.Debug("no env file found", "file", file)
	}
}

// Load parses the process environment.
func Load() (*Config, error) {
	return parse(env.Options{})
}

// LoadFrom parses the given variables instead of the process environment.
func LoadFrom(vars map[string]string) (*Config, error) {
	return parse(env.Options{Environment: vars})
}

func parse(opts env.Options) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	cfg.AirdropURL = strings.TrimSpace(cfg.AirdropURL)
	if cfg.AirdropURL == "" {
		cfg.AirdropURL = DefaultAirdropURL
	}
	if cfg.PageRows <= 0 {
		cfg.PageRows = 20
	}
	cfg.WebhookURL = strings.TrimSpace(cfg.WebhookURL)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings the process cannot start without.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.BotToken) == "" {
		return ErrMissingBotToken
	}
	if c.ChatID == 0 {
		return ErrMissingChatID
	}
	if c.PollInterval <= 0 {
		return ErrInvalidInterval
	}
	return nil
}

// ProxyURL returns HTTPS_PROXY, falling back to HTTP_PROXY.
func (c *Config) ProxyURL() string {
	if p := strings.TrimSpace(c.HTTPSProxy); p != "" {
		return p
	}
	return strings.TrimSpace(c.HTTPProxy)
}

// Location is the fixed zone used to render claim windows.
func (c *Config) Location() *time.Location {
	return time.FixedZone(fmt.Sprintf("UTC%+d", c.UTCOffsetHours), c.UTCOffsetHours*3600)
}
