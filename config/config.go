package config

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Common struct {
	ServiceName string `env:"SERVICE_NAME" envDefault:"merchant-dashboard"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
}

type HTTPConfig struct {
	Addr string `env:"HTTP_ADDR" envDefault:":8080"`
}

type BackendConfig struct {
	// Base URL of the merchant API, e.g. https://api.example.com
	URL     string        `env:"BACKEND_URL,required"`
	Timeout time.Duration `env:"BACKEND_TIMEOUT" envDefault:"15s"`
}

type SessionConfig struct {
	// Secret signs the gateway session cookie.
	Secret string `env:"SESSION_SECRET,required"`
	// TokenMaxAge bounds how long a stored bearer token is considered live.
	TokenMaxAge time.Duration `env:"TOKEN_MAX_AGE" envDefault:"8h"`
}

type RedisConfig struct {
	// Addr is optional; when empty the in-memory token store is used.
	Addr string `env:"REDIS_ADDR"`
}

type PollConfig struct {
	OrderRefreshInterval time.Duration `env:"ORDER_REFRESH_INTERVAL" envDefault:"90s"`
	NotifyInterval       time.Duration `env:"NOTIFY_INTERVAL" envDefault:"60s"`
	LivenessInterval     time.Duration `env:"LIVENESS_INTERVAL" envDefault:"60s"`
}

type Config struct {
	Common  Common
	HTTP    HTTPConfig
	Backend BackendConfig
	Session SessionConfig
	Redis   RedisConfig
	Poll    PollConfig
}

// Load reads an optional .env file and then the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
