package messagestream

import (
	"crypto/tls"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// newClient builds a Redis client from the connection settings.
// URL takes precedence over the individual address fields.
func newClient(cfg RedisConfig) (*redis.Client, error) {
	if cfg.URL != "" {
		opts, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		return redis.NewClient(opts), nil
	}

	opts := &redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		ReadTimeout:  time.Duration(cfg.ReadTimeoutMs) * time.Millisecond,
		WriteTimeout: time.Duration(cfg.WriteTimeoutMs) * time.Millisecond,
	}

	if cfg.UseTLS {
		host := strings.Split(cfg.Address, ":")[0]
		opts.TLSConfig = &tls.Config{
			ServerName: host, // SNI for managed Redis offerings
		}
	}

	return redis.NewClient(opts), nil
}

// generateConsumerName creates a unique consumer name.
// Format: {prefix}-{hostname}-{pid}-{short_uuid}
func generateConsumerName(prefix string) string {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}

	pid := os.Getpid()
	shortUUID := uuid.New().String()[:8]

	return fmt.Sprintf("%s-%s-%d-%s", prefix, hostname, pid, shortUUID)
}
