package models

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const DefaultRedisKey = "meetbot:events"

// RedisStore keeps the JSON encoded collection under a single key.
type RedisStore struct {
	client *redis.Client
	key    string
}

func NewRedisStore(client *redis.Client, key string) *RedisStore {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisStore{
		client: client,
		key:    key,
	}
}

func (rs *RedisStore) ReadAll(ctx context.Context) (Events, error) {
	if rs.client == nil {
		return nil, fmt.Errorf("redis client is not initialized")
	}
	data, err := rs.client.Get(ctx, rs.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return Events{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error reading %s: %w", rs.key, err)
	}
	return decodeEvents(data)
}

func (rs *RedisStore) WriteAll(ctx context.Context, events Events) error {
	if rs.client == nil {
		return fmt.Errorf("redis client is not initialized")
	}
	data, err := encodeEvents(events)
	if err != nil {
		return err
	}
	if err := rs.client.Set(ctx, rs.key, data, 0).Err(); err != nil {
		return fmt.Errorf("error writing %s: %w", rs.key, err)
	}
	return nil
}
