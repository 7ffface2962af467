package store

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	testRedis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func setupRedis(t *testing.T) *redis.Client {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping redis container test in short mode")
	}
	c := context.Background()

	redisContainer, err := testRedis.Run(c, "redis:7.4.2-alpine3.21")
	if err != nil {
		t.Fatalf("failed running redis container with error: %s", err)
	}
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(redisContainer); err != nil {
			t.Errorf("failed to terminate container: %s", err)
		}
	})

	connStr, err := redisContainer.ConnectionString(c)
	if err != nil {
		t.Fatalf("failed getting redis connection string with error: %s", err)
	}
	opt, err := redis.ParseURL(connStr)
	if err != nil {
		t.Fatalf("failed parsing redis connection string with error: %s", err)
	}
	client := redis.NewClient(opt)
	t.Cleanup(func() { _ = client.Close() })
	if err = client.Ping(c).Err(); err != nil {
		t.Fatalf("failed ping redis client with error: %s", err)
	}
	return client
}

func TestRedisStore(t *testing.T) {
	client := setupRedis(t)
	c := context.Background()
	s := NewRedisStore(client, time.Minute)

	all := []Key{Tables(), AvailableTables(), OrderByID(10), TableActiveOrder(1), MenuItemsByCategory()}
	seed(t, s, all...)
	assert.ElementsMatch(t, all, present(t, s, all...))

	require.NoError(t, OrderCreated(c, s, 1))

	assert.ElementsMatch(t, []Key{MenuItemsByCategory()}, present(t, s, all...))

	ttl, err := client.TTL(c, redisNamespace+MenuItemsByCategory().String()).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}
