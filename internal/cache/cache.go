// Package cache stores normalized subtitle sources keyed by video id.
package cache

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/mgpai22/substyle/internal/config"
	"github.com/mgpai22/substyle/internal/subtitle"
)

var (
	ErrCacheMiss      = errors.New("not found in cache")
	ErrCacheExpired   = errors.New("cache entry expired")
	ErrInvalidVideoID = errors.New("invalid video id")
)

// Store caches SRT content per video id
type Store interface {
	Get(ctx context.Context, videoID string) (string, error)
	Put(ctx context.Context, videoID, content string) error
	Delete(ctx context.Context, videoID string) error
}

const pingTimeout = 3 * time.Second

var videoIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// ValidateVideoID rejects ids that are unsafe as file names or keys
func ValidateVideoID(id string) error {
	if !videoIDPattern.MatchString(id) {
		return fmt.Errorf("%w: %q", ErrInvalidVideoID, id)
	}
	return nil
}

// PutCues normalizes cues to SRT before storing them
func PutCues(ctx context.Context, s Store, videoID string, cues []subtitle.Cue) error {
	content, err := subtitle.FormatCues(subtitle.FormatSRT, cues)
	if err != nil {
		return err
	}
	return s.Put(ctx, videoID, content)
}

// GetCues loads and parses a cached entry
func GetCues(ctx context.Context, s Store, videoID string) ([]subtitle.Cue, error) {
	content, err := s.Get(ctx, videoID)
	if err != nil {
		return nil, err
	}
	return subtitle.Parse(content), nil
}

// Open builds the store selected by cfg. A nil store means caching is off.
// The redis backend is pinged so a bad address fails here.
func Open(ctx context.Context, cfg config.CacheConfig) (Store, error) {
	ttl, err := config.ParseDuration(cfg.TTL)
	if err != nil {
		return nil, fmt.Errorf("invalid cache ttl: %w", err)
	}

	switch cfg.Backend {
	case config.CacheBackendNone:
		return nil, nil
	case config.CacheBackendRedis:
		store := NewRedisStore(RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			TTL:      ttl,
		})
		pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		defer cancel()
		if err := store.Ping(pingCtx); err != nil {
			_ = store.Close()
			return nil, err
		}
		return store, nil
	case config.CacheBackendFile, "":
		return NewFileStore(cfg.Dir, ttl), nil
	default:
		return nil, fmt.Errorf("unknown cache backend: %s", cfg.Backend)
	}
}

func expiry(now time.Time, ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return now.Add(ttl)
}
