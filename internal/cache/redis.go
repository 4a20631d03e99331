package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"storefront-service/internal/models"
)

const (
	linkKeyPrefix  = "affiliate:link:"
	DefaultLinkTTL = 10 * time.Minute
)

// Connect initializes a Redis client from a redis:// URL or host:port.
func Connect(ctx context.Context, redisURL string) (*redis.Client, error) {
	var client *redis.Client
	if strings.HasPrefix(redisURL, "redis://") || strings.HasPrefix(redisURL, "rediss://") {
		opt, err := redis.ParseURL(redisURL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		client = redis.NewClient(opt)
	} else {
		client = redis.NewClient(&redis.Options{Addr: redisURL})
	}

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// RedisLinkCache caches slug lookups for the tracking redirect. Cache failures
// are logged and treated as misses so tracking keeps working without Redis.
type RedisLinkCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisLinkCache(client *redis.Client, ttl time.Duration) *RedisLinkCache {
	if ttl <= 0 {
		ttl = DefaultLinkTTL
	}
	return &RedisLinkCache{client: client, ttl: ttl}
}

func linkKey(slug string) string {
	return linkKeyPrefix + slug
}

func (c *RedisLinkCache) Get(ctx context.Context, slug string) (*models.AffiliateLink, bool) {
	raw, err := c.client.Get(ctx, linkKey(slug)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("[cache] get %s: %v", slug, err)
		}
		return nil, false
	}
	var link models.AffiliateLink
	if err := json.Unmarshal(raw, &link); err != nil {
		log.Printf("[cache] decode %s: %v", slug, err)
		return nil, false
	}
	return &link, true
}

func (c *RedisLinkCache) Set(ctx context.Context, link models.AffiliateLink) {
	raw, err := json.Marshal(link)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, linkKey(link.URLSlug), raw, c.ttl).Err(); err != nil {
		log.Printf("[cache] set %s: %v", link.URLSlug, err)
	}
}

func (c *RedisLinkCache) Invalidate(ctx context.Context, slugs ...string) {
	if len(slugs) == 0 {
		return
	}
	keys := make([]string, 0, len(slugs))
	for _, slug := range slugs {
		keys = append(keys, linkKey(slug))
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		log.Printf("[cache] invalidate %v: %v", slugs, err)
	}
}
