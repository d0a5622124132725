package config

import (
	"errors"
	"os"
	"time"
)

// Config carries everything main needs to wire the service. Values come
// from the environment, with development defaults matching the local
// docker-compose setup.
type Config struct {
	ListenAddr  string
	PostgresDSN string
	RedisAddr   string
	NatsURL     string // empty disables the unlock bridge

	JWTSecret   string
	JWTDuration time.Duration
}

// Load reads the configuration from the environment. A missing JWT
// secret is an error: the gateway must refuse to start rather than
// accept unverifiable connections.
func Load() (*Config, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, errors.New("JWT_SECRET is not set")
	}

	c := &Config{
		ListenAddr:  getenv("LISTEN_ADDR", ":8080"),
		PostgresDSN: getenv("POSTGRES_DSN", "host=localhost user=user password=password dbname=pairlinkdb port=5432 sslmode=disable"),
		RedisAddr:   getenv("REDIS_ADDR", "localhost:6379"),
		NatsURL:     os.Getenv("NATS_URL"),
		JWTSecret:   secret,
		JWTDuration: 72 * time.Hour,
	}
	return c, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
