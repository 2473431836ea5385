package cache

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"
)

type FileStore struct {
	baseDir string
	ttl     time.Duration
	now     func() time.Time
}

// NewFileStore keeps entries under baseDir; ttl <= 0 never expires
func NewFileStore(baseDir string, ttl time.Duration) *FileStore {
	return &FileStore{
		baseDir: baseDir,
		ttl:     ttl,
		now:     time.Now,
	}
}

type entryFile struct {
	VideoID   string    `json:"video_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at,omitzero"`
}

func (s *FileStore) entryPath(videoID string) string {
	return filepath.Join(s.baseDir, "sub_"+videoID+".json")
}

func (s *FileStore) Get(ctx context.Context, videoID string) (string, error) {
	if err := ValidateVideoID(videoID); err != nil {
		return "", err
	}

	data, err := os.ReadFile(s.entryPath(videoID))
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrCacheMiss
		}
		return "", err
	}

	var entry entryFile
	if err := json.Unmarshal(data, &entry); err != nil {
		return "", err
	}

	if !entry.ExpiresAt.IsZero() && s.now().After(entry.ExpiresAt) {
		return "", ErrCacheExpired
	}

	return entry.Content, nil
}

func (s *FileStore) Put(ctx context.Context, videoID, content string) error {
	if err := ValidateVideoID(videoID); err != nil {
		return err
	}
	if err := os.MkdirAll(s.baseDir, 0755); err != nil {
		return err
	}

	now := s.now()
	entry := entryFile{
		VideoID:   videoID,
		Content:   content,
		CreatedAt: now,
		ExpiresAt: expiry(now, s.ttl),
	}

	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(s.entryPath(videoID), data, 0644)
}

func (s *FileStore) Delete(ctx context.Context, videoID string) error {
	if err := ValidateVideoID(videoID); err != nil {
		return err
	}
	err := os.Remove(s.entryPath(videoID))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// CleanExpired removes expired entries and returns how many were removed
func (s *FileStore) CleanExpired(ctx context.Context) (int, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}

	cleaned := 0
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, "sub_") || !strings.HasSuffix(name, ".json") {
			continue
		}

		videoID := strings.TrimSuffix(strings.TrimPrefix(name, "sub_"), ".json")
		if _, err := s.Get(ctx, videoID); err == ErrCacheExpired {
			if err := s.Delete(ctx, videoID); err == nil {
				cleaned++
			}
		}
	}

	return cleaned, nil
}

var _ Store = (*FileStore)(nil)
