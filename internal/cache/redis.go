package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const subtitleKey = "substyle:sub:%s"

type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// RedisStore keeps entries as plain string keys with a TTL
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(opts RedisOptions) *RedisStore {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	return &RedisStore{client: client, ttl: opts.TTL}
}

// Ping checks that the server is reachable
func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) Get(ctx context.Context, videoID string) (string, error) {
	if err := ValidateVideoID(videoID); err != nil {
		return "", err
	}

	content, err := s.client.Get(ctx, fmt.Sprintf(subtitleKey, videoID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrCacheMiss
		}
		return "", fmt.Errorf("redis get failed: %w", err)
	}
	return content, nil
}

func (s *RedisStore) Put(ctx context.Context, videoID, content string) error {
	if err := ValidateVideoID(videoID); err != nil {
		return err
	}

	ttl := s.ttl
	if ttl < 0 {
		ttl = 0
	}
	if err := s.client.Set(ctx, fmt.Sprintf(subtitleKey, videoID), content, ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, videoID string) error {
	if err := ValidateVideoID(videoID); err != nil {
		return err
	}
	if err := s.client.Del(ctx, fmt.Sprintf(subtitleKey, videoID)).Err(); err != nil {
		return fmt.Errorf("redis del failed: %w", err)
	}
	return nil
}

var _ Store = (*RedisStore)(nil)
