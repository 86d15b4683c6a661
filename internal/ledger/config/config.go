package config

import (
	"fmt"
	"time"

	"golang-portfolio-ledger/pkg/common"
	"golang-portfolio-ledger/pkg/config"
)

// Ledger holds the set of portfolios and the calendar used for closed dates.
type Ledger struct {
	Portfolios []string `mapstructure:"portfolios"`
	TimeZone   string   `mapstructure:"time_zone"`
}

// CoinGecko holds the price provider settings.
type CoinGecko struct {
	BaseURL             string        `mapstructure:"base_url"`
	APIKey              string        `mapstructure:"api_key"`
	Timeout             time.Duration `mapstructure:"timeout"`
	MaxRequestPerMinute int           `mapstructure:"max_request_per_minute"`
	CacheTTL            time.Duration `mapstructure:"cache_ttl"`
}

// PriceRefresh holds the periodic refresh settings.
type PriceRefresh struct {
	Disabled bool          `mapstructure:"disabled"`
	Interval time.Duration `mapstructure:"interval"`
	Timeout  time.Duration `mapstructure:"timeout"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

// Telegram holds the optional notifier settings. An empty token disables it.
type Telegram struct {
	BotToken string `mapstructure:"bot_token"`
	ChatID   int64  `mapstructure:"chat_id"`
}

// Config holds the full configuration for the ledger service.
type Config struct {
	App          config.App      `mapstructure:"app"`
	Logger       config.Logger   `mapstructure:"logger"`
	Database     config.Database `mapstructure:"database"`
	Redis        config.Redis    `mapstructure:"redis"`
	API          config.API      `mapstructure:"api"`
	Ledger       Ledger          `mapstructure:"ledger"`
	CoinGecko    CoinGecko       `mapstructure:"coingecko"`
	PriceRefresh PriceRefresh    `mapstructure:"price_refresh"`
	Telegram     Telegram        `mapstructure:"telegram"`
}

// Load loads the ledger configuration from the given path and fills in
// defaults for anything left unset.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if len(c.Ledger.Portfolios) == 0 {
		c.Ledger.Portfolios = []string{"liquid", "liquid2"}
	}
	if c.Ledger.TimeZone == "" {
		c.Ledger.TimeZone = "UTC"
	}
	if c.CoinGecko.BaseURL == "" {
		c.CoinGecko.BaseURL = "https://api.coingecko.com/api/v3"
	}
	if c.CoinGecko.Timeout <= 0 {
		c.CoinGecko.Timeout = 10 * time.Second
	}
	if c.CoinGecko.MaxRequestPerMinute <= 0 {
		c.CoinGecko.MaxRequestPerMinute = 30
	}
	if c.CoinGecko.CacheTTL <= 0 {
		c.CoinGecko.CacheTTL = 30 * time.Second
	}
	if c.PriceRefresh.Interval <= 0 {
		c.PriceRefresh.Interval = time.Minute
	}
	if c.PriceRefresh.Timeout <= 0 {
		c.PriceRefresh.Timeout = 15 * time.Second
	}
	if c.PriceRefresh.CacheTTL <= 0 {
		c.PriceRefresh.CacheTTL = 24 * time.Hour
	}
	if c.API.Port == 0 {
		c.API.Port = 8080
	}
}

func (c *Config) validate() error {
	seen := make(map[string]bool, len(c.Ledger.Portfolios))
	for _, name := range c.Ledger.Portfolios {
		if name == "" {
			return fmt.Errorf("ledger.portfolios contains an empty name")
		}
		if name == common.SummaryPortfolio {
			return fmt.Errorf("ledger.portfolios: %q is reserved for the summary view", name)
		}
		if seen[name] {
			return fmt.Errorf("ledger.portfolios: duplicate portfolio %q", name)
		}
		seen[name] = true
	}
	return nil
}
