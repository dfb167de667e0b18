package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"go.uber.org/dig"

	"bybud-web/internal/logx"
	"bybud-web/internal/session"
)

// Runner runs the web client from a built container.
type Runner struct {
	runFn     func(*dig.Container) error
	logFatalf func(string, ...interface{})
}

// NewRunner returns a Runner serving until the container's context ends.
func NewRunner() *Runner {
	return &Runner{runFn: run, logFatalf: log.Fatalf}
}

// MustRun starts the HTTP server using the provided DI container
func (r *Runner) MustRun(container *dig.Container) {
	err := r.runFn(container)
	if err == nil {
		return
	}
	logger := logx.Nop()
	_ = container.Invoke(func(l logx.Logger) { logger = l })

	switch {
	case errors.Is(err, context.Canceled):
		logger.Info("shutdown requested, exiting")
	case errors.Is(err, context.DeadlineExceeded):
		logger.Error("startup aborted: startup timeout exceeded")
	default:
		fatalf := r.logFatalf
		if fatalf == nil {
			fatalf = log.Fatalf
		}
		logger.Error("run error", logx.Err(err))
		fatalf("run error: %v", err)
	}
}

// MustRun runs container with a default Runner.
func MustRun(container *dig.Container) {
	NewRunner().MustRun(container)
}

const relayStartTimeout = 5 * time.Second

type runIn struct {
	dig.In

	Ctx      context.Context
	Server   *http.Server
	Ops      *http.Server `name:"ops_server" optional:"true"`
	Logger   logx.Logger
	Backend  session.Backend
	Notifier *session.Notifier
}

func run(container *dig.Container) error {
	return container.Invoke(func(in runIn) error {
		relayCtx, stopRelay := context.WithCancel(in.Ctx)
		var relays sync.WaitGroup
		if err := startRelay(relayCtx, &relays, in.Backend, in.Notifier, in.Logger); err != nil {
			stopRelay()
			relays.Wait()
			closeResources(in.Backend, in.Logger)
			return err
		}

		startServer(in.Server, in.Logger, "web")
		if in.Ops != nil {
			startServer(in.Ops, in.Logger, "ops")
		}
		waitForShutdown(in.Ctx, in.Logger)
		gracefulShutdown(in.Server, in.Logger, 15*time.Second)
		if in.Ops != nil {
			gracefulShutdown(in.Ops, in.Logger, 5*time.Second)
		}
		stopRelay()
		relays.Wait()
		closeResources(in.Backend, in.Logger)
		return in.Ctx.Err()
	})
}

// startRelay forwards session changes published by other instances when the
// backend is shared. With Redis, local subscribers are reached only through
// the relay, so startup fails when it cannot subscribe.
func startRelay(ctx context.Context, wg *sync.WaitGroup, backend session.Backend, n *session.Notifier, logger logx.Logger) error {
	rb, ok := backend.(*session.RedisBackend)
	if !ok {
		return nil
	}
	ready := make(chan struct{})
	stopped := make(chan error, 1)
	wg.Add(1)
	go func() {
		defer wg.Done()
		err := rb.Relay(ctx, n, logger, ready)
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("session relay stopped", logx.Err(err))
		}
		stopped <- err
	}()

	timer := time.NewTimer(relayStartTimeout)
	defer timer.Stop()
	select {
	case <-ready:
		return nil
	case err := <-stopped:
		if err == nil {
			err = errors.New("relay closed before subscribing")
		}
		return fmt.Errorf("start session relay: %w", err)
	case <-timer.C:
		return errors.New("start session relay: subscription timed out")
	}
}

func startServer(server *http.Server, logger logx.Logger, name string) {
	go func() {
		logger.Info("server listening", logx.String("server", name), logx.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("%s listen error: %v", name, err)
		}
	}()
}

func waitForShutdown(ctx context.Context, logger logx.Logger) {
	<-ctx.Done()
	logger.Info("shutting down bybud-web")
}

func gracefulShutdown(srv *http.Server, logger logx.Logger, timeout time.Duration) {
	shCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shCtx); err != nil {
		logger.Error("graceful shutdown error", logx.String("addr", srv.Addr), logx.Err(err))
	}
}

func closeResources(backend session.Backend, logger logx.Logger) {
	if c, ok := backend.(io.Closer); ok {
		if err := c.Close(); err != nil {
			logger.Error("session backend close error", logx.Err(err))
		}
	}
}
