package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"Warbler/api/config"

	"github.com/redis/go-redis/v9"
)

var Client *redis.Client

var ErrNotInitialized = errors.New("redis client not initialized")

// Init connects using either:
// - a redis:// or rediss:// URL
// - or a bare address
// It leaves caching disabled when neither is configured.
func Init(cfg config.RedisConfig) error {
	Close()

	switch {
	case cfg.URL != "":
		opt, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return fmt.Errorf("failed to parse redis url: %w", err)
		}
		Client = redis.NewClient(opt)

	case cfg.Addr != "":
		Client = redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Username: cfg.Username,
			Password: cfg.Password,
		})

	default:
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := Client.Ping(ctx).Err(); err != nil {
		Client.Close()
		Client = nil
		return fmt.Errorf("failed to connect to redis: %w", err)
	}

	return nil
}

func Enabled() bool {
	return Client != nil
}

func Ping(ctx context.Context) error {
	if Client == nil {
		return nil
	}
	return Client.Ping(ctx).Err()
}

func Close() error {
	if Client == nil {
		return nil
	}
	err := Client.Close()
	Client = nil
	return err
}

// Get returns "" and no error on a miss.
func Get(ctx context.Context, key string) (string, error) {
	if Client == nil {
		return "", ErrNotInitialized
	}

	val, err := Client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return val, err
}

func Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if Client == nil {
		return ErrNotInitialized
	}
	return Client.Set(ctx, key, value, ttl).Err()
}

func Delete(ctx context.Context, keys ...string) error {
	if Client == nil || len(keys) == 0 {
		return nil
	}
	return Client.Del(ctx, keys...).Err()
}

func DeleteByPrefix(ctx context.Context, prefix string) error {
	if Client == nil {
		return nil
	}

	var cursor uint64
	for {
		keys, next, err := Client.Scan(ctx, cursor, prefix+"*", 100).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := Client.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	return nil
}
