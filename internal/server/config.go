// Package server provides configuration helpers that define runtime defaults,
// validation, and environment loading for the mock TMI service.
package server

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	env "github.com/Netflix/go-env"
	"github.com/joho/godotenv"
	"github.com/samber/lo"
)

const (
	defaultPort                    = 3001
	defaultAllowedOrigins          = "*"
	defaultMaxMessageSize          = 8192
	defaultRateLimitBurst          = 20
	defaultRateLimitRefillInterval = 30 * time.Second
	defaultPingInterval            = 30 * time.Second
	defaultPongTimeout             = time.Second
	defaultShutdownTimeout         = 10 * time.Second
	defaultLogLevel                = "info"
)

// RateLimitConfig defines the parameters for per-connection line rate limiting.
type RateLimitConfig struct {
	Burst          int
	RefillInterval time.Duration
}

// LivenessConfig defines the keepalive schedule of every connection.
type LivenessConfig struct {
	PingInterval time.Duration
	PongTimeout  time.Duration
}

// Config holds the server configuration settings.
type Config struct {
	Port                    int           `env:"PORT,default=3001"`
	AllowedOrigins          string        `env:"ALLOWED_ORIGINS,default=*"`
	MaxMessageSize          int64         `env:"MAX_MESSAGE_SIZE,default=8192"`
	RateLimitBurst          int           `env:"RATE_LIMIT_BURST,default=20"`
	RateLimitRefillInterval time.Duration `env:"RATE_LIMIT_REFILL_INTERVAL,default=30s"`
	PingInterval            time.Duration `env:"PING_INTERVAL,default=30s"`
	PongTimeout             time.Duration `env:"PONG_TIMEOUT,default=1s"`
	ShutdownTimeout         time.Duration `env:"SHUTDOWN_TIMEOUT,default=10s"`
	LogLevel                string        `env:"LOG_LEVEL,default=info"`
}

// NewConfig creates a Config instance populated with default values for all settings.
func NewConfig() *Config {
	cfg := defaultConfig()
	return &cfg
}

// LoadConfig reads an optional .env file and then the process environment.
// Unset variables keep their defaults.
func LoadConfig(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load env file: %w", err)
	}

	cfg := NewConfig()
	if _, err := env.UnmarshalFromEnviron(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	*cfg = sanitizeConfig(*cfg)
	return cfg, nil
}

func defaultConfig() Config {
	return Config{
		Port:                    defaultPort,
		AllowedOrigins:          defaultAllowedOrigins,
		MaxMessageSize:          defaultMaxMessageSize,
		RateLimitBurst:          defaultRateLimitBurst,
		RateLimitRefillInterval: defaultRateLimitRefillInterval,
		PingInterval:            defaultPingInterval,
		PongTimeout:             defaultPongTimeout,
		ShutdownTimeout:         defaultShutdownTimeout,
		LogLevel:                defaultLogLevel,
	}
}

func sanitizeConfig(cfg Config) Config {
	if cfg.Port <= 0 {
		cfg.Port = defaultPort
	}

	if strings.TrimSpace(cfg.AllowedOrigins) == "" {
		cfg.AllowedOrigins = defaultAllowedOrigins
	}

	if cfg.MaxMessageSize <= 0 {
		cfg.MaxMessageSize = defaultMaxMessageSize
	}

	if cfg.RateLimitBurst <= 0 {
		cfg.RateLimitBurst = defaultRateLimitBurst
	}

	if cfg.RateLimitRefillInterval <= 0 {
		cfg.RateLimitRefillInterval = defaultRateLimitRefillInterval
	}

	if cfg.PingInterval <= 0 {
		cfg.PingInterval = defaultPingInterval
	}

	if cfg.PongTimeout <= 0 {
		cfg.PongTimeout = defaultPongTimeout
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = defaultLogLevel
	}

	return cfg
}

// Addr returns the listen address for the configured port.
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// RateLimit returns the per-connection rate limit settings.
func (c Config) RateLimit() RateLimitConfig {
	return RateLimitConfig{Burst: c.RateLimitBurst, RefillInterval: c.RateLimitRefillInterval}
}

// Liveness returns the keepalive settings.
func (c Config) Liveness() LivenessConfig {
	return LivenessConfig{PingInterval: c.PingInterval, PongTimeout: c.PongTimeout}
}

// Origins returns the configured allowed origins list.
func (c Config) Origins() []string {
	return parseOrigins(c.AllowedOrigins)
}

func parseOrigins(origins string) []string {
	return lo.Compact(lo.Map(strings.Split(origins, ","), func(origin string, _ int) string {
		return strings.TrimSpace(origin)
	}))
}
