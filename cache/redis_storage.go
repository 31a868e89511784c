package cache

import (
	"context"
	"log/slog"

	"github.com/go-redis/redis/v8"
	"semsearch.app/config"
)

// RedisStorage is a redis-backed Storage shared by every facade instance in
// the same deployment. Expiry is handled uniformly by the TTL layer above,
// so entries are written without a redis TTL.
type RedisStorage struct {
	client *redis.Client
	ctx    context.Context
}

func NewRedisStorage(cfg *config.RedisConfig) (*RedisStorage, error) {
	ctx := context.Background()

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	slog.Info("redis storage connected", "addr", cfg.Addr)

	return &RedisStorage{
		client: client,
		ctx:    ctx,
	}, nil
}

func (s *RedisStorage) Get(key string) (string, bool, error) {
	value, err := s.client.Get(s.ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", false, nil
		}
		return "", false, err
	}
	return value, true, nil
}

func (s *RedisStorage) Set(key, value string) error {
	return s.client.Set(s.ctx, key, value, 0).Err()
}

func (s *RedisStorage) Delete(key string) error {
	return s.client.Del(s.ctx, key).Err()
}

func (s *RedisStorage) Keys(prefix string) ([]string, error) {
	return s.client.Keys(s.ctx, prefix+"*").Result()
}

func (s *RedisStorage) Close() error {
	return s.client.Close()
}
