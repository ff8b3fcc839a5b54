package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/xebia-france/xskillz-v2/internal/config"
	"github.com/xebia-france/xskillz-v2/internal/pkg/permissions"

	"github.com/redis/go-redis/v9"
)

// MeCache keeps the signed-in user's record (profile plus roles) in redis so
// permission checks don't hit the directory on every request. When redis is
// unreachable the cache degrades to a no-op and callers fall back to the
// database.
type MeCache struct {
	client *redis.Client
	logger *log.Logger
	ttl    time.Duration

	warnedUnavailable atomic.Bool
}

func NewMeCache(cfg config.RedisConfig, logger *log.Logger) *MeCache {
	host := cfg.Host
	if host == "" {
		host = "localhost"
	}
	port := cfg.Port
	if port == "" {
		port = "6379"
	}
	ttl := cfg.MeTTL
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}

	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", host, port),
		Password: cfg.Password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		if logger != nil {
			logger.Printf("[Cache] redis unavailable, bypassing me-cache: %v", err)
		}
		_ = client.Close()
		return &MeCache{client: nil, logger: logger, ttl: ttl}
	}

	return &MeCache{client: client, logger: logger, ttl: ttl}
}

func (c *MeCache) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

func (c *MeCache) Set(ctx context.Context, me permissions.Me) {
	if c.isUnavailable() {
		return
	}
	b, err := json.Marshal(me)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key(me.ID), b, c.ttl).Err(); err != nil {
		c.warnUnavailableOnce(err)
	}
}

func (c *MeCache) Get(ctx context.Context, userID int64) (permissions.Me, bool) {
	if c.isUnavailable() {
		return permissions.Me{}, false
	}
	b, err := c.client.Get(ctx, key(userID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.warnUnavailableOnce(err)
		}
		return permissions.Me{}, false
	}
	var me permissions.Me
	if err := json.Unmarshal(b, &me); err != nil {
		return permissions.Me{}, false
	}
	return me, true
}

// Invalidate drops the cached record, e.g. after a role grant or a profile
// update, so the next check reloads from the directory.
func (c *MeCache) Invalidate(ctx context.Context, userID int64) {
	if c.isUnavailable() {
		return
	}
	if err := c.client.Del(ctx, key(userID)).Err(); err != nil {
		c.warnUnavailableOnce(err)
	}
}

func key(userID int64) string {
	return "me:" + strconv.FormatInt(userID, 10)
}

func (c *MeCache) isUnavailable() bool {
	return c == nil || c.client == nil
}

func (c *MeCache) warnUnavailableOnce(err error) {
	if c == nil || c.logger == nil {
		return
	}
	if c.warnedUnavailable.CompareAndSwap(false, true) {
		c.logger.Printf("[Cache] redis error, results degrade to direct reads: %v", err)
	}
}
