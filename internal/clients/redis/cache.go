package redis

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/raceautoindia/race-analytics-backend/internal/logger"
)

// ChartCache is a read-through cache for rendered chart responses. Chart
// queries are pure functions of the stored data, so cached bodies only need
// a short TTL to absorb dashboard refresh storms.
type ChartCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, body []byte)
	Close() error
}

type chartCache struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

// NewChartCache connects to REDIS_ADDR. A missing address is not an error;
// the caller should run without a cache.
func NewChartCache(log *logger.Logger, ttl time.Duration) (ChartCache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	return &chartCache{
		log: log.With("service", "RedisChartCache"),
		rdb: rdb,
		ttl: ttl,
	}, nil
}

func (c *chartCache) Get(ctx context.Context, key string) ([]byte, bool) {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != goredis.Nil {
			c.log.Warn("Chart cache read failed", "key", key, "error", err)
		}
		return nil, false
	}
	return raw, true
}

func (c *chartCache) Set(ctx context.Context, key string, body []byte) {
	if err := c.rdb.Set(ctx, key, body, c.ttl).Err(); err != nil {
		c.log.Warn("Chart cache write failed", "key", key, "error", err)
	}
}

func (c *chartCache) Close() error {
	return c.rdb.Close()
}
