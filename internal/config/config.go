// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the storefront binaries
type Config struct {
	App      AppConfig
	Server   ServerConfig
	Redis    RedisConfig
	Security SecurityConfig
	External ExternalConfig
	Checkout CheckoutConfig
	Client   ClientConfig
	Logging  LoggingConfig
}

// AppConfig contains application-level configuration
type AppConfig struct {
	Name        string
	Version     string
	Environment string
	Debug       bool
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	RequestTimeout time.Duration
	MaxBodyBytes   int64
}

// RedisConfig contains Redis configuration
type RedisConfig struct {
	Host         string
	Port         string
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	RateLimitEnabled   bool
	RateLimitPerMinute int
	CORSAllowedOrigins []string
	CORSAllowedMethods []string
	CORSAllowedHeaders []string
	TrustedProxies     []string
}

// ExternalConfig contains external service configurations
type ExternalConfig struct {
	Stripe StripeConfig
}

// StripeConfig contains Stripe payment configuration
type StripeConfig struct {
	SecretKey      string
	PublishableKey string
	WebhookSecret  string
	APIURL         string
	Timeout        time.Duration
}

// ShippingRateConfig describes one fixed-amount shipping option
type ShippingRateConfig struct {
	DisplayName string
	Amount      int64
	MinDays     int64
	MaxDays     int64
}

// CheckoutConfig contains the business policy applied to every payment session
type CheckoutConfig struct {
	Currency         string
	PaymentMethods   []string
	AllowedCountries []string
	SuccessPath      string
	CancelPath       string
	Standard         ShippingRateConfig
	Express          ShippingRateConfig
}

// ClientConfig contains configuration for the terminal cart client
type ClientConfig struct {
	Storage        string
	Dir            string
	Namespace      string
	ServerURL      string
	CurrencySymbol string
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// Load loads configuration from environment variables and .env file
func Load() (*Config, error) {
	// .env is optional; the process environment always wins
	_ = godotenv.Load()

	config := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Storefront"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			Environment: getEnv("APP_ENV", getEnv("NODE_ENV", "development")),
			Debug:       getEnvAsBool("APP_DEBUG", true),
		},
		Server: ServerConfig{
			Port:           getEnv("PORT", getEnv("APP_PORT", "3000")),
			ReadTimeout:    getEnvAsDuration("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:   getEnvAsDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:    getEnvAsDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
			RequestTimeout: getEnvAsDuration("REQUEST_TIMEOUT", 30*time.Second),
			MaxBodyBytes:   getEnvAsInt64("MAX_BODY_BYTES", 1<<20), // 1MB
		},
		Redis: RedisConfig{
			Host:         getEnv("REDIS_HOST", "localhost"),
			Port:         getEnv("REDIS_PORT", "6379"),
			Password:     getEnv("REDIS_PASSWORD", ""),
			DB:           getEnvAsInt("REDIS_DB", 0),
			PoolSize:     getEnvAsInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getEnvAsInt("REDIS_MIN_IDLE_CONNS", 2),
		},
		Security: SecurityConfig{
			RateLimitEnabled:   getEnvAsBool("RATE_LIMIT_ENABLED", false),
			RateLimitPerMinute: getEnvAsInt("RATE_LIMIT_PER_MINUTE", 100),
			CORSAllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
			CORSAllowedMethods: getEnvAsSlice("CORS_ALLOWED_METHODS", []string{"GET", "POST", "OPTIONS"}),
			CORSAllowedHeaders: getEnvAsSlice("CORS_ALLOWED_HEADERS", []string{"Origin", "Content-Type", "Accept"}),
			TrustedProxies:     getEnvAsSlice("TRUSTED_PROXIES", []string{}),
		},
		External: ExternalConfig{
			Stripe: StripeConfig{
				SecretKey:      getEnv("STRIPE_SECRET_KEY", ""),
				PublishableKey: getEnv("STRIPE_PUBLISHABLE_KEY", ""),
				WebhookSecret:  getEnv("STRIPE_WEBHOOK_SECRET", ""),
				APIURL:         getEnv("STRIPE_API_URL", ""),
				Timeout:        getEnvAsDuration("STRIPE_TIMEOUT", 30*time.Second),
			},
		},
		Checkout: CheckoutConfig{
			Currency:         strings.ToLower(getEnv("CHECKOUT_CURRENCY", "eur")),
			PaymentMethods:   []string{"card"},
			AllowedCountries: getEnvAsSlice("CHECKOUT_ALLOWED_COUNTRIES", []string{"ES", "DE"}),
			SuccessPath:      getEnv("CHECKOUT_SUCCESS_PATH", "/success.html"),
			CancelPath:       getEnv("CHECKOUT_CANCEL_PATH", "/shop.html"),
			Standard: ShippingRateConfig{
				DisplayName: getEnv("SHIPPING_STANDARD_NAME", "Standard Shipping"),
				Amount:      getEnvAsInt64("SHIPPING_STANDARD_AMOUNT", 500),
				MinDays:     getEnvAsInt64("SHIPPING_STANDARD_MIN_DAYS", 5),
				MaxDays:     getEnvAsInt64("SHIPPING_STANDARD_MAX_DAYS", 7),
			},
			Express: ShippingRateConfig{
				DisplayName: getEnv("SHIPPING_EXPRESS_NAME", "Express Shipping"),
				Amount:      getEnvAsInt64("SHIPPING_EXPRESS_AMOUNT", 1000),
				MinDays:     getEnvAsInt64("SHIPPING_EXPRESS_MIN_DAYS", 1),
				MaxDays:     getEnvAsInt64("SHIPPING_EXPRESS_MAX_DAYS", 2),
			},
		},
		Client: ClientConfig{
			Storage:        getEnv("CART_STORAGE", "file"),
			Dir:            getEnv("CART_DIR", defaultCartDir()),
			Namespace:      getEnv("CART_NAMESPACE", "storefront"),
			ServerURL:      strings.TrimRight(getEnv("STOREFRONT_URL", "http://localhost:3000"), "/"),
			CurrencySymbol: getEnv("CURRENCY_SYMBOL", "€"),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.Checkout.Currency == "" {
		return fmt.Errorf("CHECKOUT_CURRENCY is required")
	}

	if len(c.Checkout.AllowedCountries) == 0 {
		return fmt.Errorf("CHECKOUT_ALLOWED_COUNTRIES must list at least one country")
	}

	// Secrets may be absent while developing against stripe-mock or the CLI only
	if c.IsProduction() {
		if c.External.Stripe.SecretKey == "" {
			return fmt.Errorf("STRIPE_SECRET_KEY is required in production")
		}
		if c.External.Stripe.WebhookSecret == "" {
			return fmt.Errorf("STRIPE_WEBHOOK_SECRET is required in production")
		}
	}

	return nil
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

func defaultCartDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".storefront"
	}
	return filepath.Join(home, ".storefront")
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}
	return defaultValue
}
