package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"storefront-backend/database"
)

// Config holds all configuration for the storefront service.
type Config struct {
	Port        string
	Environment string

	CORSOrigins []string

	RateLimitPerSecond float64
	RateLimitBurst     int

	Postgres database.PostgresConfig
	RedisURL string

	JWTSecret string
	JWTTTL    time.Duration

	StripeSecretKey  string
	StripeWebhookKey string
	Currency         string

	// Commerce constants. Shipping is a flat fee waived at or above the
	// free-shipping minimum; tax applies to the post-discount subtotal.
	ShippingFlatFee float64
	FreeShippingMin float64
	TaxRate         float64

	CartTTL time.Duration

	SMTPHost string
	SMTPPort string
	SMTPUser string
	SMTPPass string

	AdminEmail string
}

// LoadConfig reads configuration from the environment, with a .env file as a
// convenience in development.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// No .env file is fine; system environment wins anyway.
	}

	cfg := &Config{
		Port:               getEnv("PORT", "8080"),
		Environment:        getEnv("ENVIRONMENT", "development"),
		CORSOrigins:        strings.Split(getEnv("CORS_ORIGINS", "http://localhost:3000"), ","),
		RateLimitPerSecond: getEnvFloat("RATE_LIMIT_PER_SECOND", 20),
		RateLimitBurst:     int(getEnvFloat("RATE_LIMIT_BURST", 40)),
		Postgres: database.PostgresConfig{
			User:     os.Getenv("POSTGRES_USER"),
			Password: os.Getenv("POSTGRES_PASSWORD"),
			DBName:   os.Getenv("POSTGRES_DB"),
			Host:     getEnv("POSTGRES_HOST", "localhost"),
			Port:     getEnv("POSTGRES_PORT", "5432"),
			SSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
			TimeZone: getEnv("POSTGRES_TIMEZONE", "UTC"),
		},
		RedisURL:         getEnv("REDIS_URL", "redis://localhost:6379/0"),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		JWTTTL:           getEnvDuration("JWT_TTL", 24*time.Hour),
		StripeSecretKey:  os.Getenv("STRIPE_SECRET_KEY"),
		StripeWebhookKey: os.Getenv("STRIPE_WEBHOOK_SECRET"),
		Currency:         getEnv("CURRENCY", "usd"),
		ShippingFlatFee:  getEnvFloat("SHIPPING_FLAT_FEE", 10.00),
		FreeShippingMin:  getEnvFloat("FREE_SHIPPING_MIN", 50.00),
		TaxRate:          getEnvFloat("TAX_RATE", 0.08),
		CartTTL:          getEnvDuration("CART_TTL", 7*24*time.Hour),
		SMTPHost:         os.Getenv("SMTP_HOST"),
		SMTPPort:         getEnv("SMTP_PORT", "587"),
		SMTPUser:         os.Getenv("SMTP_USER"),
		SMTPPass:         os.Getenv("SMTP_PASS"),
		AdminEmail:       os.Getenv("ADMIN_EMAIL"),
	}

	if cfg.Postgres.User == "" || cfg.Postgres.Password == "" || cfg.Postgres.DBName == "" {
		return nil, fmt.Errorf("database config incomplete")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.StripeSecretKey == "" {
		return nil, fmt.Errorf("STRIPE_SECRET_KEY is required")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return fallback
}
