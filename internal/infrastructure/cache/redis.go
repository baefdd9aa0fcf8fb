package cache

import (
	"context"
	"fmt"
	"net"
	"time"

	"clinic-booking/config"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const redisConnectAttempts = 3

// NewRedisClient connects to Redis, retrying the first ping while the
// server is still starting next to the API.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         net.JoinHostPort(cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	var err error
	for attempt := 1; attempt <= redisConnectAttempts; attempt++ {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err = client.Ping(pingCtx).Err()
		cancel()
		if err == nil {
			logrus.Infof("Connected to Redis at %s (db %d)", client.Options().Addr, cfg.DB)
			return client, nil
		}
		logrus.Warnf("Redis ping failed (attempt %d/%d): %v", attempt, redisConnectAttempts, err)
		if attempt == redisConnectAttempts {
			break
		}

		select {
		case <-ctx.Done():
			_ = client.Close()
			return nil, ctx.Err()
		case <-time.After(time.Duration(attempt) * time.Second):
		}
	}

	_ = client.Close()
	return nil, fmt.Errorf("ping redis: %w", err)
}
