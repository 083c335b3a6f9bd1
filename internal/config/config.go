package config

import (
	"crypto/rand"
	"encoding/base64"
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	defaultServerAddress = "localhost:8080"
	defaultBaseURL       = "http://localhost:8080"
	defaultTokenTTL      = time.Hour
)

type Config struct {
	ServerAddress string        `env:"SERVER_ADDRESS"`
	BaseURL       string        `env:"BASE_URL"`
	DatabaseDSN   string        `env:"DATABASE_DSN"` // empty selects the in-memory store
	JWTSecretKey  string        `env:"JWT_SECRET_KEY"`
	TokenTTL      time.Duration `env:"TOKEN_TTL"`
}

func NewConfig() *Config {
	// .env is optional; real environment variables win over it.
	_ = godotenv.Load()

	cfg := &Config{
		ServerAddress: defaultServerAddress,
		BaseURL:       defaultBaseURL,
		TokenTTL:      defaultTokenTTL,
	}

	flag.StringVar(&cfg.ServerAddress, "server-address", cfg.ServerAddress, "Server address")
	flag.StringVar(&cfg.BaseURL, "base-url", cfg.BaseURL, "Base URL for generated short links")
	flag.StringVar(&cfg.DatabaseDSN, "database-dsn", cfg.DatabaseDSN, "Postgres DSN (empty: in-memory store)")
	flag.DurationVar(&cfg.TokenTTL, "token-ttl", cfg.TokenTTL, "Access token lifetime")
	flag.Parse()

	// Environment overrides flags, matching the deploy setup.
	if err := env.Parse(cfg); err != nil {
		panic(fmt.Sprintf("failed to parse environment: %v", err))
	}

	cfg.validateJWTSecret()
	cfg.normalizeServerAddress()

	return cfg
}

func (c *Config) validateJWTSecret() {
	if c.JWTSecretKey == "" {
		key := make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			panic("failed to generate JWT secret key")
		}
		c.JWTSecretKey = base64.StdEncoding.EncodeToString(key)
		fmt.Println("WARNING: using auto-generated JWT secret key; set JWT_SECRET_KEY for production")
		return
	}

	if decoded, err := base64.StdEncoding.DecodeString(c.JWTSecretKey); err != nil || len(decoded) < 32 {
		panic("JWT secret key must decode to at least 32 bytes (base64 encoded)")
	}
}

func (c *Config) normalizeServerAddress() {
	if strings.HasPrefix(c.ServerAddress, ":") {
		c.ServerAddress = "localhost" + c.ServerAddress
	}
}
