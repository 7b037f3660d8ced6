package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Environment string `envconfig:"APP_ENV" default:"production"`
		LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
		LogDir      string `envconfig:"LOG_DIR" default:"logs"`
		HTTPAddr    string `envconfig:"HTTP_ADDR" default:":8080"`
	}

	Feed struct {
		TickIntervalMS   int    `envconfig:"TICK_INTERVAL_MS" default:"2000"`
		ChartWindow      int    `envconfig:"CHART_WINDOW" default:"7"`
		SeedFile         string `envconfig:"SEED_FILE"`
		SubscriberBuffer int    `envconfig:"SUBSCRIBER_BUFFER" default:"16"`
		AutoConnect      bool   `envconfig:"AUTO_CONNECT" default:"true"`

		// FollowURL switches the process to follower mode: it reads another
		// instance's /ws feed instead of simulating.
		FollowURL string `envconfig:"FOLLOW_URL"`
	}

	WS struct {
		SendBuffer int `envconfig:"WS_SEND_BUFFER" default:"16"`
		PingSecs   int `envconfig:"WS_PING_SECS" default:"30"`
	}
}

// Load reads .env when present, then the process environment.
func Load() (*Config, error) {
	// A missing .env is normal outside development.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Feed.TickIntervalMS <= 0 {
		return fmt.Errorf("tick interval must be positive, got %d", c.Feed.TickIntervalMS)
	}
	if c.Feed.ChartWindow < 2 {
		return fmt.Errorf("chart window must hold at least 2 points, got %d", c.Feed.ChartWindow)
	}
	if c.Feed.SubscriberBuffer < 1 {
		return fmt.Errorf("subscriber buffer must be at least 1")
	}
	if c.WS.SendBuffer < 1 {
		return fmt.Errorf("websocket send buffer must be at least 1")
	}
	if c.WS.PingSecs <= 0 {
		return fmt.Errorf("websocket ping interval must be positive")
	}
	return nil
}

func (c *Config) TickInterval() time.Duration {
	return time.Duration(c.Feed.TickIntervalMS) * time.Millisecond
}

func (c *Config) PingInterval() time.Duration {
	return time.Duration(c.WS.PingSecs) * time.Second
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}
