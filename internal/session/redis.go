package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"bybud-web/internal/logx"
)

// RedisConfig configures RedisBackend.
type RedisConfig struct {
	Prefix string
	TTL    time.Duration // 0 keeps records until cleared
}

// RedisBackend stores records in Redis and distributes changes over a
// pub/sub channel so every web instance sharing the Redis sees them.
type RedisBackend struct {
	client redis.UniversalClient
	cfg    RedisConfig
}

// NewRedisBackend wraps a connected client.
func NewRedisBackend(client redis.UniversalClient, cfg RedisConfig) *RedisBackend {
	return &RedisBackend{client: client, cfg: cfg}
}

func (r *RedisBackend) key(k string) string { return r.cfg.Prefix + k }

func (r *RedisBackend) channel() string { return r.cfg.Prefix + "changes" }

func (r *RedisBackend) Load(ctx context.Context, key string) (string, bool, error) {
	v, err := r.client.Get(ctx, r.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (r *RedisBackend) Save(ctx context.Context, key, value string) error {
	return r.client.Set(ctx, r.key(key), value, r.cfg.TTL).Err()
}

func (r *RedisBackend) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.key(key)).Err()
}

// Publish sends c to every relay listening on the change channel.
func (r *RedisBackend) Publish(ctx context.Context, c Change) error {
	payload, err := json.Marshal(c)
	if err != nil {
		return err
	}
	return r.client.Publish(ctx, r.channel(), payload).Err()
}

// Relay forwards changes published by any instance into n until ctx ends.
// ready, if non-nil, is closed once the subscription is confirmed.
func (r *RedisBackend) Relay(ctx context.Context, n *Notifier, logger logx.Logger, ready chan<- struct{}) error {
	if logger == nil {
		logger = logx.Nop()
	}
	ps := r.client.Subscribe(ctx, r.channel())
	defer func() { _ = ps.Close() }()

	if _, err := ps.Receive(ctx); err != nil {
		return fmt.Errorf("session relay subscribe: %w", err)
	}
	if ready != nil {
		close(ready)
	}

	ch := ps.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var c Change
			if err := json.Unmarshal([]byte(msg.Payload), &c); err != nil {
				logger.Warn("session relay: bad payload", logx.Err(err))
				continue
			}
			n.Publish(c)
		}
	}
}

// Ping checks connectivity.
func (r *RedisBackend) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close releases the client.
func (r *RedisBackend) Close() error {
	return r.client.Close()
}

var _ Backend = (*RedisBackend)(nil)
