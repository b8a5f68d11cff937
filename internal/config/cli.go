package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Cart storage backends
const (
	StorageFile   = "file"
	StorageRedis  = "redis"
	StorageMemory = "memory"
)

// CLIConfig is what the terminal cart needs. It skips the server checks so
// the cart works without payment secrets.
type CLIConfig struct {
	Client  ClientConfig
	Redis   RedisConfig
	Logging LoggingConfig
}

// envBindings maps viper keys to the environment variables the server uses
var envBindings = map[string]string{
	"storage":         "CART_STORAGE",
	"dir":             "CART_DIR",
	"namespace":       "CART_NAMESPACE",
	"server":          "STOREFRONT_URL",
	"currency_symbol": "CURRENCY_SYMBOL",
	"redis.host":      "REDIS_HOST",
	"redis.port":      "REDIS_PORT",
	"redis.password":  "REDIS_PASSWORD",
	"redis.db":        "REDIS_DB",
	"log.level":       "LOG_LEVEL",
	"log.format":      "LOG_FORMAT",
}

// LoadCLI resolves cart settings with the precedence flags > environment >
// config file > defaults. Flags must already be bound to v. An explicit
// configFile must exist; otherwise config.yaml in the cart directory is
// read when present.
func LoadCLI(v *viper.Viper, configFile string) (*CLIConfig, error) {
	_ = godotenv.Load()

	v.SetDefault("storage", StorageFile)
	v.SetDefault("dir", defaultCartDir())
	v.SetDefault("namespace", "storefront")
	v.SetDefault("server", "http://localhost:3000")
	v.SetDefault("currency_symbol", "€")
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", "6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "text")

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configFile, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(v.GetString("dir"))
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := &CLIConfig{
		Client: ClientConfig{
			Storage:        strings.ToLower(v.GetString("storage")),
			Dir:            v.GetString("dir"),
			Namespace:      v.GetString("namespace"),
			ServerURL:      strings.TrimRight(v.GetString("server"), "/"),
			CurrencySymbol: v.GetString("currency_symbol"),
		},
		Redis: RedisConfig{
			Host:         v.GetString("redis.host"),
			Port:         v.GetString("redis.port"),
			Password:     v.GetString("redis.password"),
			DB:           v.GetInt("redis.db"),
			PoolSize:     2,
			MinIdleConns: 0,
		},
		Logging: LoggingConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
	}

	switch cfg.Client.Storage {
	case StorageFile, StorageRedis, StorageMemory:
	default:
		return nil, fmt.Errorf("unknown cart storage %q (want file, redis or memory)", cfg.Client.Storage)
	}

	return cfg, nil
}
