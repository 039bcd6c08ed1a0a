package kv

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// RedisConfig configures a redis-backed store.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	// Prefix namespaces every key, playing the role of the browser origin.
	Prefix string
}

// RedisStore is a Store on a redis server.
type RedisStore struct {
	rdb    *goredis.Client
	prefix string
}

// OpenRedis connects to redis and verifies the connection with PING.
func OpenRedis(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	if strings.TrimSpace(cfg.Addr) == "" {
		return nil, errors.New("redis address is required")
	}
	prefix := cfg.Prefix
	if prefix == "" {
		prefix = "portfolio:"
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, &UnavailableError{Backend: "redis", Cause: err}
	}
	return &RedisStore{rdb: rdb, prefix: prefix}, nil
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	v, err := s.rdb.Get(ctx, s.prefix+key).Result()
	if errors.Is(err, goredis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", s.classify(key, err)
	}
	return v, nil
}

func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	if err := s.rdb.Set(ctx, s.prefix+key, value, 0).Err(); err != nil {
		return s.classify(key, err)
	}
	return nil
}

func (s *RedisStore) Remove(ctx context.Context, key string) error {
	if err := s.rdb.Del(ctx, s.prefix+key).Err(); err != nil {
		return s.classify(key, err)
	}
	return nil
}

func (s *RedisStore) Keys(ctx context.Context) ([]string, error) {
	var keys []string
	iter := s.rdb.Scan(ctx, 0, s.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, strings.TrimPrefix(iter.Val(), s.prefix))
	}
	if err := iter.Err(); err != nil {
		return nil, s.classify("", err)
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *RedisStore) Close() error {
	return s.rdb.Close()
}

func (s *RedisStore) classify(key string, err error) error {
	// maxmemory reached with a noeviction policy
	if strings.HasPrefix(err.Error(), "OOM") {
		return &QuotaExceededError{Key: key, Cause: err}
	}
	if errors.Is(err, goredis.ErrClosed) || goredis.IsReadOnlyError(err) || errors.Is(err, context.DeadlineExceeded) {
		return &UnavailableError{Backend: "redis", Cause: err}
	}
	return fmt.Errorf("redis store %s: %w", key, err)
}
