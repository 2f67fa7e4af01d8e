package main

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all environment variables for the API server.
type Config struct {
	Env           string // "development" or "production"
	Port          string // HTTP port (default: 4000)
	MongoURI      string
	MongoDB       string
	JWTSecret     string
	JWTExpires    time.Duration // signed token lifetime
	CookieExpires time.Duration // session cookie lifetime
	FrontendURL   string        // base URL embedded in emails and payment redirects
	PayMongoKey   string
	RedisURL      string
}

// LoadConfig loads environment variables into the Config struct and
// validates the required ones.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Env:         os.Getenv("ENV"),
		Port:        os.Getenv("PORT"),
		MongoURI:    os.Getenv("MONGO_URI"),
		MongoDB:     os.Getenv("MONGO_DB"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		FrontendURL: os.Getenv("FRONTEND_URL"),
		PayMongoKey: os.Getenv("PAYMONGO_SECRET_KEY"),
		RedisURL:    os.Getenv("REDIS_URL"),
	}

	if cfg.Env == "" {
		cfg.Env = "development"
	}
	if cfg.Port == "" {
		cfg.Port = "4000"
	}
	if cfg.MongoDB == "" {
		cfg.MongoDB = "teampoor"
	}
	if cfg.FrontendURL == "" {
		cfg.FrontendURL = "http://localhost:3000"
	}

	cfg.JWTExpires = time.Duration(envInt("JWT_EXPIRES_HOURS", 24)) * time.Hour
	cfg.CookieExpires = time.Duration(envInt("COOKIE_EXPIRES_DAYS", 7)) * 24 * time.Hour

	// Validate required fields
	if cfg.MongoURI == "" {
		return nil, fmt.Errorf("MONGO_URI is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.PayMongoKey == "" {
		return nil, fmt.Errorf("PAYMONGO_SECRET_KEY is required")
	}

	return cfg, nil
}

func envInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
