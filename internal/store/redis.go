package store

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisNamespace = "lairai:query:"

// RedisStore shares the cache between gateway instances. Values are JSON
// strings under a namespaced key.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (r *RedisStore) Get(c context.Context, key Key, dst interface{}) (bool, error) {
	data, err := r.client.Get(c, redisNamespace+key.String()).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err = decode(data, dst); err != nil {
		return false, err
	}
	return true, nil
}

func (r *RedisStore) Set(c context.Context, key Key, value interface{}) error {
	data, err := encode(value)
	if err != nil {
		return err
	}
	return r.client.Set(c, redisNamespace+key.String(), data, r.ttl).Err()
}

func (r *RedisStore) Invalidate(c context.Context, keys ...Key) error {
	for _, k := range keys {
		exact := redisNamespace + k.String()
		toDelete := []string{exact}
		iter := r.client.Scan(c, 0, exact+":*", 100).Iterator()
		for iter.Next(c) {
			toDelete = append(toDelete, iter.Val())
		}
		if err := iter.Err(); err != nil {
			return err
		}
		if err := r.client.Del(c, toDelete...).Err(); err != nil {
			return err
		}
	}
	return nil
}
