package config

import (
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env        string `env:"ENV" env-default:"local"`
	Tokens     Tokens
	Postgres   Postgres
	HTTPServer HTTPServer
}

type HTTPServer struct {
	Port        int           `env:"HTTP_PORT" env-default:"5000"`
	Timeout     time.Duration `env:"HTTP_TIMEOUT" env-default:"4s"`
	IdleTimeout time.Duration `env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
}

type Postgres struct {
	URL string `env:"DATABASE_URL" env-required:"true"`
}

type Tokens struct {
	AccessSecret    string        `env:"JWT_SECRET_ACCESS" env-required:"true"`
	RefreshSecret   string        `env:"JWT_SECRET_REFRESH" env-required:"true"`
	AccessTokenTTL  time.Duration `env:"JWT_ACCESS_TTL" env-default:"15m"`
	RefreshTokenTTL time.Duration `env:"JWT_REFRESH_TTL" env-default:"168h"`
}

// MustLoad reads the configuration from the environment once at startup.
// Missing required variables are fatal.
func MustLoad() *Config {
	var cfg Config

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		panic("Failed to read config: " + err.Error())
	}

	return &cfg
}
