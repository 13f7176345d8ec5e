// Package redis provides a Redis-backed status cache in front of a ticket source.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/ticketchat/internal/logging"
	"github.com/aretw0/ticketchat/pkg/ports"
	backend "github.com/redis/go-redis/v9"
)

const (
	DefaultTTL    = 10 * time.Minute
	DefaultPrefix = "ticketchat:"

	statusesKey = "statuses"
	lockTTL     = 30 * time.Second
)

// StatusCache implements ports.TicketSource, caching ListStatuses in Redis.
// Ticket listings and summaries always go to the wrapped source.
// Redis failures degrade to uncached calls.
type StatusCache struct {
	inner  ports.TicketSource
	client *backend.Client
	locker *Locker
	ttl    time.Duration
	prefix string
	logger *slog.Logger
}

// Option configures the StatusCache.
type Option func(*StatusCache)

// WithTTL sets how long the cached status list is kept.
func WithTTL(ttl time.Duration) Option {
	return func(c *StatusCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(c *StatusCache) {
		c.prefix = prefix
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *StatusCache) {
		c.logger = logger
	}
}

// New connects to the Redis instance at url and wraps inner.
func New(url string, inner ports.TicketSource, opts ...Option) (*StatusCache, error) {
	redisOpts, err := backend.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	return NewFromClient(backend.NewClient(redisOpts), inner, opts...), nil
}

// NewFromClient wraps inner using an existing Redis client.
func NewFromClient(client *backend.Client, inner ports.TicketSource, opts ...Option) *StatusCache {
	c := &StatusCache{
		inner:  inner,
		client: client,
		ttl:    DefaultTTL,
		prefix: DefaultPrefix,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.locker = NewLocker(client, c.prefix)
	return c
}

// ListStatuses returns the cached status list, refreshing it from the wrapped source on a miss.
// Concurrent misses across processes are serialized so only one of them hits upstream.
func (c *StatusCache) ListStatuses(ctx context.Context) ([]string, error) {
	if statuses, ok := c.load(ctx); ok {
		return statuses, nil
	}

	unlock, err := c.locker.Lock(ctx, statusesKey, lockTTL)
	if err != nil {
		c.logger.Warn("status cache lock unavailable", "err", err)
		return c.inner.ListStatuses(ctx)
	}
	defer func() {
		if err := unlock(context.WithoutCancel(ctx)); err != nil {
			c.logger.Warn("status cache unlock failed", "err", err)
		}
	}()

	// Another holder may have filled it while we waited.
	if statuses, ok := c.load(ctx); ok {
		return statuses, nil
	}

	statuses, err := c.inner.ListStatuses(ctx)
	if err != nil {
		return nil, err
	}
	c.store(ctx, statuses)
	return statuses, nil
}

// ListTickets delegates to the wrapped source.
func (c *StatusCache) ListTickets(ctx context.Context, status string) (string, error) {
	return c.inner.ListTickets(ctx, status)
}

// SummarizeTicket delegates to the wrapped source.
func (c *StatusCache) SummarizeTicket(ctx context.Context, key string) (string, error) {
	return c.inner.SummarizeTicket(ctx, key)
}

// Invalidate drops the cached status list.
func (c *StatusCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, c.prefix+statusesKey).Err()
}

// Close releases the Redis connection.
func (c *StatusCache) Close() error {
	return c.client.Close()
}

func (c *StatusCache) load(ctx context.Context) ([]string, bool) {
	data, err := c.client.Get(ctx, c.prefix+statusesKey).Bytes()
	if err != nil {
		if !errors.Is(err, backend.Nil) {
			c.logger.Warn("status cache read failed", "err", err)
		}
		return nil, false
	}

	var statuses []string
	if err := json.Unmarshal(data, &statuses); err != nil {
		c.logger.Warn("status cache entry corrupt", "err", err)
		return nil, false
	}
	c.logger.Debug("status cache hit", "count", len(statuses))
	return statuses, true
}

func (c *StatusCache) store(ctx context.Context, statuses []string) {
	data, err := json.Marshal(statuses)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, c.prefix+statusesKey, data, c.ttl).Err(); err != nil {
		c.logger.Warn("status cache write failed", "err", err)
	}
}
