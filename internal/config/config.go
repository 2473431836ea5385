package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Playback PlaybackConfig `yaml:"playback"`
	Style    StyleConfig    `yaml:"style"`
	Cache    CacheConfig    `yaml:"cache"`
	Log      LogConfig      `yaml:"log"`
}

// PlaybackConfig holds poll loop settings
type PlaybackConfig struct {
	PollInterval time.Duration `yaml:"poll_interval"`
}

// StyleConfig is handed to the renderer untouched
type StyleConfig struct {
	Preset string         `yaml:"preset"`
	Custom map[string]any `yaml:"custom"`
}

// CacheConfig selects where subtitle sources are cached
type CacheConfig struct {
	Backend       string `yaml:"backend"` // file, redis or none
	TTL           string `yaml:"ttl"`
	Dir           string `yaml:"dir"`
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`
}

// LogConfig controls file logging
type LogConfig struct {
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

const (
	CacheBackendFile  = "file"
	CacheBackendRedis = "redis"
	CacheBackendNone  = "none"
)

// DefaultConfig returns configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Playback: PlaybackConfig{
			PollInterval: 100 * time.Millisecond,
		},
		Style: StyleConfig{
			Preset: "submagic",
			Custom: map[string]any{},
		},
		Cache: CacheConfig{
			Backend:   CacheBackendFile,
			TTL:       "7d",
			Dir:       CacheDir(),
			RedisAddr: "127.0.0.1:6379",
		},
		Log: LogConfig{
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// AppDir returns the application directory (~/.substyle)
func AppDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".substyle"
	}
	return filepath.Join(home, ".substyle")
}

// CacheDir returns the subtitle cache directory
func CacheDir() string {
	return filepath.Join(AppDir(), "cache")
}

// ConfigPath returns the config file path
func ConfigPath() string {
	return filepath.Join(AppDir(), "config.yaml")
}

// Load reads config from file, returns defaults if it does not exist.
// Environment overrides are applied on top.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	case os.IsNotExist(err):
	default:
		return nil, err
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadWithDotenv loads .env from the working directory (if present) before
// reading path. Variables already set in the environment win over .env.
func LoadWithDotenv(path string) (*Config, error) {
	_ = godotenv.Load()
	return Load(path)
}

// Save writes config to file
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v, ok := os.LookupEnv("SUBSTYLE_POLL_INTERVAL"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid SUBSTYLE_POLL_INTERVAL %q: %w", v, err)
		}
		c.Playback.PollInterval = d
	}
	if v, ok := os.LookupEnv("SUBSTYLE_PRESET"); ok {
		c.Style.Preset = v
	}
	if v, ok := os.LookupEnv("SUBSTYLE_CACHE_BACKEND"); ok {
		c.Cache.Backend = strings.ToLower(strings.TrimSpace(v))
	}
	if v, ok := os.LookupEnv("SUBSTYLE_CACHE_TTL"); ok {
		c.Cache.TTL = v
	}
	if v, ok := os.LookupEnv("SUBSTYLE_CACHE_DIR"); ok {
		c.Cache.Dir = v
	}
	if v, ok := os.LookupEnv("SUBSTYLE_REDIS_ADDR"); ok {
		c.Cache.RedisAddr = v
	}
	if v, ok := os.LookupEnv("SUBSTYLE_REDIS_PASSWORD"); ok {
		c.Cache.RedisPassword = v
	}
	if v, ok := os.LookupEnv("SUBSTYLE_REDIS_DB"); ok {
		db, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid SUBSTYLE_REDIS_DB %q: %w", v, err)
		}
		c.Cache.RedisDB = db
	}
	if v, ok := os.LookupEnv("SUBSTYLE_LOG_FILE"); ok {
		c.Log.File = v
	}
	return nil
}

// Validate checks values that would otherwise fail later at runtime
func (c *Config) Validate() error {
	if c.Playback.PollInterval <= 0 {
		return fmt.Errorf("poll_interval must be positive, got %s", c.Playback.PollInterval)
	}
	switch c.Cache.Backend {
	case CacheBackendFile, CacheBackendRedis, CacheBackendNone:
	default:
		return fmt.Errorf("unknown cache backend %q (use file, redis or none)", c.Cache.Backend)
	}
	if _, err := c.GetCacheTTL(); err != nil {
		return err
	}
	return nil
}

// GetCacheTTL returns the cache TTL as a duration
func (c *Config) GetCacheTTL() (time.Duration, error) {
	return ParseDuration(c.Cache.TTL)
}

var durationPattern = regexp.MustCompile(`^(\d+)(h|d)$`)

// ParseDuration parses duration strings like "24h", "7d", "30d"
func ParseDuration(s string) (time.Duration, error) {
	matches := durationPattern.FindStringSubmatch(s)
	if len(matches) != 3 {
		return 0, fmt.Errorf("invalid duration format: %s (use format like 24h, 7d)", s)
	}

	value, err := strconv.ParseInt(matches[1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %s: %w", s, err)
	}
	unit := matches[2]

	var per time.Duration
	switch unit {
	case "h":
		per = time.Hour
	case "d":
		per = 24 * time.Hour
	default:
		return 0, fmt.Errorf("unknown duration unit: %s", unit)
	}

	if value > int64(math.MaxInt64/per) {
		return 0, fmt.Errorf("duration out of range: %s", s)
	}
	return time.Duration(value) * per, nil
}
