package config

import (
	"os"
	"time"
)

type Config struct {
	Port             string
	BankBaseURL      string
	BankPaymentRoute string
	BankTimeout      time.Duration
	DatabaseURL      string
	RedisURL         string
	KafkaBrokers     string
	NatsURL          string
	JaegerEndpoint   string
}

func Load() *Config {
	bankTimeout := 5 * time.Second
	if raw := os.Getenv("BANK_TIMEOUT"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil {
			bankTimeout = d
		}
	}

	return &Config{
		Port:             getEnv("PORT", "8082"),
		BankBaseURL:      getEnv("BANK_BASE_URL", "http://localhost:8080"),
		BankPaymentRoute: getEnv("BANK_PAYMENT_ROUTE", "payments"),
		BankTimeout:      bankTimeout,
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		RedisURL:         os.Getenv("REDIS_URL"),
		KafkaBrokers:     os.Getenv("KAFKA_BROKERS"),
		NatsURL:          os.Getenv("NATS_URL"),
		JaegerEndpoint:   os.Getenv("JAEGER_ENDPOINT"),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
