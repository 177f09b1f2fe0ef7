package auth

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"

	"house-inventory/pkg/cache"
	"house-inventory/pkg/logger"
)

// RedisStorage keeps the token keys in Redis under a common prefix, so
// several gateway replicas can share one session.
type RedisStorage struct {
	client cache.CacheClient
	prefix string
}

func NewRedisStorage(client cache.CacheClient, prefix string) *RedisStorage {
	return &RedisStorage{client: client, prefix: prefix}
}

func (s *RedisStorage) Get(ctx context.Context, key string) (string, bool, error) {
	start := time.Now()
	val, err := s.client.Get(ctx, cache.TokenKey(s.prefix, key)).Result()
	cache.RecordOperationDuration("get", time.Since(start).Seconds())
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		cache.IncrementError("get")
		logger.GlobalLogger.Errorf("failed to get token key=%s, error=%v", key, err)
		return "", false, cache.NewCacheError("get", err, true)
	}
	return val, true, nil
}

func (s *RedisStorage) Set(ctx context.Context, key, value string) error {
	start := time.Now()
	err := s.client.Set(ctx, cache.TokenKey(s.prefix, key), value, 0).Err()
	cache.RecordOperationDuration("set", time.Since(start).Seconds())
	if err != nil {
		cache.IncrementError("set")
		logger.GlobalLogger.Errorf("failed to set token key=%s, error=%v", key, err)
		return cache.NewCacheError("set", err, true)
	}
	return nil
}

func (s *RedisStorage) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, 0, len(keys))
	for _, k := range keys {
		full = append(full, cache.TokenKey(s.prefix, k))
	}
	start := time.Now()
	err := s.client.Del(ctx, full...).Err()
	cache.RecordOperationDuration("delete", time.Since(start).Seconds())
	if err != nil {
		cache.IncrementError("delete")
		logger.GlobalLogger.Errorf("failed to delete token keys=%v, error=%v", keys, err)
		return cache.NewCacheError("delete", err, true)
	}
	return nil
}
