package cache_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dharmasatrya/tripplanner/internal/cache"
	"github.com/dharmasatrya/tripplanner/internal/testutil"
)

type query struct {
	City  string
	Party int
}

func TestGenerateKey(t *testing.T) {
	a := cache.GenerateKey("lodging", "v1", query{City: "Dubai", Party: 2})
	b := cache.GenerateKey("lodging", "v1", query{City: "Dubai", Party: 2})
	otherVersion := cache.GenerateKey("lodging", "v2", query{City: "Dubai", Party: 2})
	otherQuery := cache.GenerateKey("lodging", "v1", query{City: "Dubai", Party: 3})

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, otherVersion)
	assert.NotEqual(t, a, otherQuery)
	assert.True(t, strings.HasPrefix(a, "lodging:"))
}

func TestNoOpCache(t *testing.T) {
	c := cache.NewNoOpCache()
	ctx := context.Background()

	assert.NoError(t, c.Set(ctx, "k", []byte("v")))
	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)
	assert.NoError(t, c.Close())
}

func TestRedisCache_RoundTrip(t *testing.T) {
	client := testutil.NewRedisClient(t)
	ctx := context.Background()

	prefix := "tripplanner-test:" + t.Name() + ":"
	ttl := time.Minute
	c := cache.NewRedisCacheWithClient(client, ttl, prefix)

	key := cache.GenerateKey("lodging", "v1", query{City: "Dubai", Party: 2})
	t.Cleanup(func() { client.Del(context.Background(), prefix+key) })

	_, ok := c.Get(ctx, key)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, key, []byte(`{"hotels":[]}`)))

	got, ok := c.Get(ctx, key)
	require.True(t, ok)
	assert.Equal(t, `{"hotels":[]}`, string(got))

	raw, err := client.Get(ctx, prefix+key).Result()
	require.NoError(t, err)
	assert.Equal(t, `{"hotels":[]}`, raw)

	expiry, err := client.TTL(ctx, prefix+key).Result()
	require.NoError(t, err)
	assert.Greater(t, expiry, time.Duration(0))
	assert.LessOrEqual(t, expiry, ttl)

	_, ok = c.Get(ctx, "lodging:missing")
	assert.False(t, ok)
}
