package messagestream

import (
	"errors"
	"os"
)

type Config struct {
	Redis    RedisConfig
	Consumer ConsumerConfig
	Stream   StreamConfig
}

type RedisConfig struct {
	URL            string // connection string "redis://host:port"; takes precedence over Address
	Address        string // default: "localhost:6379"
	Password       string
	DB             int
	PoolSize       int   // default: 10
	ReadTimeoutMs  int64 // default: 3000
	WriteTimeoutMs int64 // default: 3000
	UseTLS         bool  // default: false
}

type ConsumerConfig struct {
	Name string // auto-generated if empty
}

type StreamConfig struct {
	BlockTimeoutMs  int64 // default: 2000
	MaxProcessedIDs int   // default: 10000
}

// DefaultConfig returns a Config with all default values.
func DefaultConfig() Config {
	return Config{
		Redis: RedisConfig{
			Address:        "localhost:6379",
			PoolSize:       10,
			ReadTimeoutMs:  3000,
			WriteTimeoutMs: 3000,
		},
		Stream: StreamConfig{
			BlockTimeoutMs:  2000,
			MaxProcessedIDs: 10000,
		},
	}
}

// Validate checks that values are within valid ranges.
// Returns an error describing the first validation failure.
func (c Config) Validate() error {
	if c.Redis.URL == "" && c.Redis.Address == "" {
		return errors.New("messagestream: redis url or address must be set")
	}

	if c.Stream.BlockTimeoutMs <= 0 {
		return errors.New("messagestream: stream block_timeout must be > 0")
	}

	if c.Stream.MaxProcessedIDs <= 0 {
		return errors.New("messagestream: stream max_processed_ids must be > 0")
	}

	return nil
}

// WithDefaults returns a new Config with zero-value fields replaced by defaults.
func (c Config) WithDefaults() Config {
	defaults := DefaultConfig()
	result := c

	// Redis
	if result.Redis.URL == "" && result.Redis.Address == "" {
		result.Redis.Address = defaults.Redis.Address
	}
	if result.Redis.PoolSize == 0 {
		result.Redis.PoolSize = defaults.Redis.PoolSize
	}
	if result.Redis.ReadTimeoutMs == 0 {
		result.Redis.ReadTimeoutMs = defaults.Redis.ReadTimeoutMs
	}
	if result.Redis.WriteTimeoutMs == 0 {
		result.Redis.WriteTimeoutMs = defaults.Redis.WriteTimeoutMs
	}

	// Stream
	if result.Stream.BlockTimeoutMs == 0 {
		result.Stream.BlockTimeoutMs = defaults.Stream.BlockTimeoutMs
	}
	if result.Stream.MaxProcessedIDs == 0 {
		result.Stream.MaxProcessedIDs = defaults.Stream.MaxProcessedIDs
	}

	return result
}

// ConfigFromEnv reads Redis connection settings from environment variables
// and returns a Config with those values set. Unset variables use defaults.
//
// Environment variables:
//   - REDIS_URL: full connection string, e.g. "redis://localhost:6379"
//   - REDIS_HOST: Redis hostname (default: "localhost"), ignored when REDIS_URL is set
//   - REDIS_PORT: Redis port (default: "6379"), ignored when REDIS_URL is set
//   - REDIS_PASSWORD: Redis password (default: "")
//   - REDIS_USE_TLS: Enable TLS ("true" or "1") (default: false)
//   - CONSUMER_NAME: stream consumer identity override (default: auto-generated)
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	if url := os.Getenv("REDIS_URL"); url != "" {
		cfg.Redis.URL = url
	} else {
		host := os.Getenv("REDIS_HOST")
		if host == "" {
			host = "localhost"
		}
		port := os.Getenv("REDIS_PORT")
		if port == "" {
			port = "6379"
		}
		cfg.Redis.Address = host + ":" + port
	}

	if pw := os.Getenv("REDIS_PASSWORD"); pw != "" {
		cfg.Redis.Password = pw
	}

	tlsEnv := os.Getenv("REDIS_USE_TLS")
	cfg.Redis.UseTLS = (tlsEnv == "true" || tlsEnv == "1")

	if name := os.Getenv("CONSUMER_NAME"); name != "" {
		cfg.Consumer.Name = name
	}

	return cfg
}
