package app

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/dig"

	"bybud-web/internal/config"
	"bybud-web/internal/logx"
	"bybud-web/internal/session"
)

type storeIn struct {
	dig.In

	Backend  session.Backend
	Notifier *session.Notifier
	Logger   logx.Logger
	Changes  *prometheus.CounterVec `name:"session_changes_total"`
}

func registerSession(container *dig.Container, redisConnect redisConnectFunc) error {
	backendProvider := func(ctx context.Context, cfg *config.Config, logger logx.Logger) (session.Backend, error) {
		if cfg.Session.Backend != config.SessionRedis {
			logger.Info("session backend: memory")
			return session.NewMemoryBackend(), nil
		}
		client, err := redisConnect(ctx, &redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, 10, time.Second)
		if err != nil {
			return nil, err
		}
		logger.Info("session backend: redis", logx.String("addr", cfg.Redis.Addr))
		return session.NewRedisBackend(client, session.RedisConfig{
			Prefix: cfg.Redis.Prefix,
			TTL:    cfg.Session.TTL,
		}), nil
	}
	return provideAll(container,
		backendProvider,
		session.NewNotifier,
		func(in storeIn) *session.Store {
			return session.NewStore(in.Backend, in.Notifier, in.Logger, in.Changes)
		},
		session.NewProvider,
	)
}
