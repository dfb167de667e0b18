package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

var newRedisClient = redis.NewClient

func connectRedisWithRetry(ctx context.Context, opts *redis.Options, retries int, delay time.Duration) (*redis.Client, error) {
	var lastErr error
	const attemptTimeout = 3 * time.Second
	client := newRedisClient(opts)
	for i := 1; i <= retries; i++ {
		attemptCtx, cancel := context.WithTimeout(ctx, attemptTimeout)
		err := client.Ping(attemptCtx).Err()
		cancel()
		if err == nil {
			log.Printf("redis connected on attempt %d", i)
			return client, nil
		}
		lastErr = err
		log.Printf("redis connect failed (attempt %d/%d): %v", i, retries, err)
		if i < retries {
			select {
			case <-ctx.Done():
				_ = client.Close()
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}
	}
	_ = client.Close()
	return nil, fmt.Errorf("redis connect failed after %d attempts: %w", retries, lastErr)
}
