package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

type Config struct {
	DatabaseURL   string        `env:"DATABASE_URL,required"`
	Port          string        `env:"PORT" envDefault:"8080"`
	APIToken      string        `env:"API_TOKEN" envDefault:"dev-token"`
	CORSOrigin    string        `env:"CORS_ORIGIN" envDefault:"*"`
	FeedBaseURL   string        `env:"FEED_BASE_URL" envDefault:"https://api.binance.com/api/v3"`
	PollInterval  time.Duration `env:"POLL_INTERVAL" envDefault:"2s"`
	FeedTimeout   time.Duration `env:"FEED_TIMEOUT" envDefault:"1500ms"`
	KlineCacheTTL time.Duration `env:"KLINE_CACHE_TTL" envDefault:"60s"`
	WSSendBuffer  int           `env:"WS_SEND_BUFFER" envDefault:"32"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return cfg, err
	}
	// A hung fetch must never block the next poll tick.
	if cfg.FeedTimeout >= cfg.PollInterval {
		return cfg, fmt.Errorf("FEED_TIMEOUT (%s) must be shorter than POLL_INTERVAL (%s)",
			cfg.FeedTimeout, cfg.PollInterval)
	}
	if cfg.WSSendBuffer <= 0 {
		return cfg, fmt.Errorf("WS_SEND_BUFFER must be positive, got %d", cfg.WSSendBuffer)
	}
	return cfg, nil
}
