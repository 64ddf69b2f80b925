package adgen

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/marden/adrival/internal/models"
)

// Cache stores generated ad lists keyed by the request fingerprint.
// Misses and storage failures are invisible to callers; generation just
// proceeds without the cache.
type Cache interface {
	Get(ctx context.Context, key string) ([]models.Ad, bool)
	Set(ctx context.Context, key string, ads []models.Ad)
}

// CacheKey fingerprints a generation request. The same brand, competitor,
// ZIP and variant count always map to the same key.
func CacheKey(brand, competitor, zipcode string, numVariations int) string {
	raw := fmt.Sprintf("%s|%s|%s|%d", brand, competitor, zipcode, numVariations)
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(raw))))
	return hex.EncodeToString(sum[:])
}

type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewRedisCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) *RedisCache {
	if ttl == 0 {
		ttl = time.Hour
	}
	return &RedisCache{client: client, ttl: ttl, logger: logger}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]models.Ad, bool) {
	data, err := c.client.Get(ctx, "adgen:"+key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		c.logger.Warn("cache read failed", "key", key, "error", err)
		return nil, false
	}

	var ads []models.Ad
	if err := json.Unmarshal(data, &ads); err != nil {
		c.logger.Warn("cache entry corrupt, ignoring", "key", key, "error", err)
		return nil, false
	}
	return ads, true
}

func (c *RedisCache) Set(ctx context.Context, key string, ads []models.Ad) {
	data, err := json.Marshal(ads)
	if err != nil {
		c.logger.Warn("cache marshal failed", "key", key, "error", err)
		return
	}
	if err := c.client.Set(ctx, "adgen:"+key, data, c.ttl).Err(); err != nil {
		c.logger.Warn("cache write failed", "key", key, "error", err)
	}
}

// NoopCache is used when Redis is not configured.
type NoopCache struct{}

func (NoopCache) Get(context.Context, string) ([]models.Ad, bool) { return nil, false }
func (NoopCache) Set(context.Context, string, []models.Ad)        {}
