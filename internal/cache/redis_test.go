package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"storefront-service/internal/models"
)

func TestLinkKey(t *testing.T) {
	assert.Equal(t, "affiliate:link:promo", linkKey("promo"))
}

func TestNewRedisLinkCacheDefaultsTTL(t *testing.T) {
	c := NewRedisLinkCache(nil, 0)
	assert.Equal(t, DefaultLinkTTL, c.ttl)
}

func TestRedisLinkCacheUnavailableIsAMiss(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	c := NewRedisLinkCache(client, time.Minute)
	ctx := context.Background()

	c.Set(ctx, models.AffiliateLink{ID: "l1", URLSlug: "promo", Active: true})
	link, ok := c.Get(ctx, "promo")
	assert.False(t, ok)
	assert.Nil(t, link)
	c.Invalidate(ctx, "promo")
}

func TestConnectRejectsBadURL(t *testing.T) {
	_, err := Connect(context.Background(), "redis://:badport:abc")
	assert.Error(t, err)
}
