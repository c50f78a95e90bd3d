package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/frahmantamala/payroll-management/internal"
	"github.com/frahmantamala/payroll-management/internal/core/events"
)

const (
	keyPrefix = "payroll-management:"
	// versionKey is bumped by every invalidation so writers can detect a
	// snapshot computed before a change landed.
	versionKey = keyPrefix + "version"
)

// JSONCache stores JSON snapshots in redis. A nil *JSONCache behaves as a cache that always misses.
type JSONCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// New returns nil when no redis address is configured.
func New(cfg internal.CacheConfig, logger *slog.Logger) *JSONCache {
	if cfg.RedisAddr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	return NewWithClient(client, cfg.SummaryTTL, logger)
}

func NewWithClient(client *redis.Client, ttl time.Duration, logger *slog.Logger) *JSONCache {
	return &JSONCache{client: client, ttl: ttl, logger: logger}
}

func (c *JSONCache) Enabled() bool {
	return c != nil && c.client != nil
}

func (c *JSONCache) Ping(ctx context.Context) error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Ping(ctx).Err()
}

func (c *JSONCache) GetJSON(ctx context.Context, key string, dst interface{}) (bool, error) {
	if !c.Enabled() {
		return false, nil
	}
	raw, err := c.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache get %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("cache decode %s: %w", key, err)
	}
	return true, nil
}

// Version returns the invalidation counter, zero before the first invalidation.
func (c *JSONCache) Version(ctx context.Context) (int64, error) {
	if !c.Enabled() {
		return 0, nil
	}
	v, err := c.client.Get(ctx, versionKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("cache version: %w", err)
	}
	return v, nil
}

// SetJSONAt stores value only while the invalidation counter still equals version.
// It reports false when an invalidation happened after version was read.
func (c *JSONCache) SetJSONAt(ctx context.Context, key string, value interface{}, version int64) (bool, error) {
	if !c.Enabled() {
		return false, nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return false, fmt.Errorf("cache encode %s: %w", key, err)
	}

	stored := false
	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, versionKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != version {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, keyPrefix+key, raw, c.ttl)
			return nil
		})
		if err == nil {
			stored = true
		}
		return err
	}, versionKey)
	if errors.Is(err, redis.TxFailedErr) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache set %s: %w", key, err)
	}
	return stored, nil
}

// Invalidate bumps the version and drops keys in one transaction.
func (c *JSONCache) Invalidate(ctx context.Context, keys ...string) error {
	if !c.Enabled() {
		return nil
	}
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, versionKey)
		for _, k := range keys {
			pipe.Del(ctx, keyPrefix+k)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("cache invalidate: %w", err)
	}
	return nil
}

// InvalidateOn drops keys whenever one of the given events is published.
// Failures are logged and swallowed so a cache outage never fails a write.
func (c *JSONCache) InvalidateOn(bus *events.EventBus, keys []string, eventTypes ...string) {
	if !c.Enabled() {
		return
	}
	bus.SubscribeAll(func(ctx context.Context, event events.Event) error {
		if err := c.Invalidate(ctx, keys...); err != nil {
			c.logger.Warn("cache invalidation failed",
				"event_type", event.EventType(),
				"event_id", event.EventID(),
				"error", err)
			return nil
		}
		c.logger.Debug("cache invalidated", "event_type", event.EventType(), "keys", keys)
		return nil
	}, eventTypes...)
}

func (c *JSONCache) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Close()
}
