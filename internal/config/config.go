package config

import (
	"fmt"
	"time"

	pkgconfig "github.com/Viniciusdacostasilva/Loja-de-roupas/pkg/config"
)

// Config holds all configuration for the storefront server.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"HTTP_PORT" envDefault:"8080"`

	// Redis (cart snapshots)
	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	// Cart behaviour
	CartTTL          time.Duration `env:"CART_TTL" envDefault:"720h"`
	CartSaveDebounce time.Duration `env:"CART_SAVE_DEBOUNCE" envDefault:"500ms"`
	CartIdleTimeout  time.Duration `env:"CART_IDLE_TIMEOUT" envDefault:"30m"`

	// Checkout
	ShippingFeeCents int64 `env:"SHIPPING_FEE_CENTS" envDefault:"1500"`

	// Firestore (catalog)
	FirestoreProjectID string `env:"FIRESTORE_PROJECT_ID" envDefault:""`

	// Firebase (shopper identity)
	FirebaseProjectID       string `env:"FIREBASE_PROJECT_ID" envDefault:""`
	FirebaseCredentialsFile string `env:"FIREBASE_CREDENTIALS_FILE" envDefault:""`

	// Kafka
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// Tracing
	TracingEnabled  bool    `env:"TRACING_ENABLED" envDefault:"false"`
	TracingEndpoint string  `env:"TRACING_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	TracingSampler  float64 `env:"TRACING_SAMPLER_RATIO" envDefault:"0.1"`

	// CORS
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load storefront config: %w", err)
	}
	if cfg.HTTPPort < 1 || cfg.HTTPPort > 65535 {
		return nil, fmt.Errorf("invalid HTTP port: %d", cfg.HTTPPort)
	}
	if cfg.CartSaveDebounce <= 0 {
		return nil, fmt.Errorf("invalid cart save debounce: %s", cfg.CartSaveDebounce)
	}
	if cfg.CartIdleTimeout <= 0 {
		return nil, fmt.Errorf("invalid cart idle timeout: %s", cfg.CartIdleTimeout)
	}
	if cfg.ShippingFeeCents < 0 {
		return nil, fmt.Errorf("invalid shipping fee: %d", cfg.ShippingFeeCents)
	}
	return cfg, nil
}
