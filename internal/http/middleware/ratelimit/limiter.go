package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Config tunes KeyedLimiter.
type Config struct {
	Rate       float64       // events per second
	Burst      int           // bucket size
	TTL        time.Duration // forget keys idle this long; 0 keeps them
	MaxClients int           // refuse new keys beyond this; 0 is unlimited
}

// KeyedLimiter keeps one token bucket per key.
type KeyedLimiter struct {
	cfg   Config
	clock Clock

	mu          sync.Mutex
	clients     map[string]*client
	lastCleanup time.Time
}

type client struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// NewKeyedLimiter returns a limiter reading time from clock.
func NewKeyedLimiter(clock Clock, cfg Config) *KeyedLimiter {
	if clock == nil {
		clock = RealClock{}
	}
	if cfg.Rate <= 0 {
		cfg.Rate = 1
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	if cfg.MaxClients < 0 {
		cfg.MaxClients = 0
	}
	return &KeyedLimiter{cfg: cfg, clock: clock, clients: make(map[string]*client)}
}

// PerWindow allows limit events per window for each key.
func PerWindow(clock Clock, limit int, window, ttl time.Duration) *KeyedLimiter {
	if window <= 0 {
		window = time.Minute
	}
	if limit <= 0 {
		limit = 1
	}
	return NewKeyedLimiter(clock, Config{
		Rate:  float64(limit) / window.Seconds(),
		Burst: limit,
		TTL:   ttl,
	})
}

// Allow reports whether key has a token left and spends it.
func (l *KeyedLimiter) Allow(key string) bool {
	now := l.clock.Now()

	l.mu.Lock()
	l.cleanup(now)
	c, ok := l.clients[key]
	if !ok {
		if l.cfg.MaxClients > 0 && len(l.clients) >= l.cfg.MaxClients {
			l.mu.Unlock()
			return false
		}
		c = &client{lim: rate.NewLimiter(rate.Limit(l.cfg.Rate), l.cfg.Burst)}
		l.clients[key] = c
	}
	c.lastSeen = now
	l.mu.Unlock()

	return c.lim.AllowN(now, 1)
}

// Len is the number of tracked keys.
func (l *KeyedLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

// cleanup runs under l.mu at most once per interval.
func (l *KeyedLimiter) cleanup(now time.Time) {
	if l.cfg.TTL <= 0 {
		return
	}
	interval := time.Minute
	if half := l.cfg.TTL / 2; half > interval {
		interval = half
	}
	if !l.lastCleanup.IsZero() && now.Sub(l.lastCleanup) < interval {
		return
	}
	l.lastCleanup = now
	for k, c := range l.clients {
		if now.Sub(c.lastSeen) > l.cfg.TTL {
			delete(l.clients, k)
		}
	}
}
