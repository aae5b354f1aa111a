package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/capitalize-ai/rent-assistant/internal/intent"
	"github.com/capitalize-ai/rent-assistant/internal/model"
	"github.com/capitalize-ai/rent-assistant/pkg/logger"
	"github.com/capitalize-ai/rent-assistant/pkg/metrics"
)

const keyPrefix = "rent-assistant:"

// RedisConfig holds connection settings for NewRedisClient.
type RedisConfig struct {
	Address  string
	Password string
	DB       int
}

// NewRedisClient creates a pooled go-redis client.
func NewRedisClient(cfg RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})
}

// Cached wraps a Store and caches FAQ and property listings in Redis.
// Tenant-scoped lookups always go to the inner store. Redis failures are
// logged and fall through to the inner store.
type Cached struct {
	Store
	rdb *redis.Client
	ttl time.Duration
	log *logger.Logger
}

// NewCached returns a caching Store.
func NewCached(inner Store, rdb *redis.Client, ttl time.Duration, log *logger.Logger) *Cached {
	if log == nil {
		log = logger.NewNop()
	}
	return &Cached{Store: inner, rdb: rdb, ttl: ttl, log: log}
}

// ListFAQs returns cached FAQs when present.
func (c *Cached) ListFAQs(ctx context.Context) ([]model.FAQ, error) {
	key := keyPrefix + "faqs"

	var faqs []model.FAQ
	if c.get(ctx, "faqs", key, &faqs) {
		return faqs, nil
	}

	faqs, err := c.Store.ListFAQs(ctx)
	if err != nil {
		return nil, err
	}
	if len(faqs) > 0 {
		c.set(ctx, key, faqs)
	}
	return faqs, nil
}

// ListProperties returns cached listings for an identical filter set.
func (c *Cached) ListProperties(ctx context.Context, filters intent.FilterSet) ([]model.Property, error) {
	fk, err := json.Marshal(filters)
	if err != nil {
		return c.Store.ListProperties(ctx, filters)
	}
	key := keyPrefix + "properties:" + string(fk)

	var props []model.Property
	if c.get(ctx, "properties", key, &props) {
		return props, nil
	}

	props, err = c.Store.ListProperties(ctx, filters)
	if err != nil {
		return nil, err
	}
	if len(props) > 0 {
		c.set(ctx, key, props)
	}
	return props, nil
}

// Invalidate drops every cached listing.
func (c *Cached) Invalidate(ctx context.Context) error {
	iter := c.rdb.Scan(ctx, 0, keyPrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.rdb.Del(ctx, keys...).Err()
}

func (c *Cached) get(ctx context.Context, resource, key string, dst interface{}) bool {
	val, err := c.rdb.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn("cache read failed", zap.String("key", key), zap.Error(err))
			metrics.CacheLookupsTotal.WithLabelValues(resource, "error").Inc()
		} else {
			metrics.CacheLookupsTotal.WithLabelValues(resource, "miss").Inc()
		}
		return false
	}
	if err := json.Unmarshal([]byte(val), dst); err != nil {
		c.log.Warn("cache entry corrupt", zap.String("key", key), zap.Error(err))
		metrics.CacheLookupsTotal.WithLabelValues(resource, "error").Inc()
		return false
	}
	metrics.CacheLookupsTotal.WithLabelValues(resource, "hit").Inc()
	return true
}

func (c *Cached) set(ctx context.Context, key string, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.log.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}
