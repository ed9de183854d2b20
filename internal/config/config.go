package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	toml "github.com/pelletier/go-toml/v2"
)

// Config is the resolved console configuration.
type Config struct {
	APIBase         string
	RequestTimeout  time.Duration
	Debounce        time.Duration
	PageSizes       []int
	DefaultPageSize int
	CacheTTL        time.Duration
	CacheSize       int
	PollInterval    time.Duration
	LogFile         string // empty disables logging
	LogLevel        string
}

const (
	defaultConfigPath     = "~/.config/healthdesk/config.toml"
	defaultAPIBase        = "127.0.0.1:7490"
	defaultRequestTimeout = 5000
	defaultDebounce       = 500
	defaultPageSize       = 10
	defaultCacheTTL       = 30000
	defaultCacheSize      = 256
	defaultPollSeconds    = 5
	defaultLogFile        = "~/.local/state/healthdesk/healthdesk.log"
	defaultLogLevel       = "info"
)

var defaultPageSizes = []int{10, 20, 30, 40, 50}

// fileConfig mirrors config.toml. Durations are integers in the unit their
// key names.
type fileConfig struct {
	APIBase          string `toml:"api_base"`
	RequestTimeoutMS int    `toml:"request_timeout_ms" validate:"gte=100,lte=120000"`
	DebounceMS       int    `toml:"debounce_ms" validate:"gte=0,lte=5000"`
	PageSizes        []int  `toml:"page_sizes" validate:"min=1,max=10,dive,gte=1,lte=500"`
	DefaultPageSize  int    `toml:"default_page_size" validate:"gte=1,lte=500"`
	CacheTTLMS       int    `toml:"cache_ttl_ms" validate:"gte=0"`
	CacheSize        int    `toml:"cache_size" validate:"gte=1,lte=100000"`
	PollSeconds      int    `toml:"poll_seconds" validate:"gte=1,lte=3600"`
	LogFile          string `toml:"log_file"`
	LogLevel         string `toml:"log_level" validate:"oneof=debug info warn error disabled"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	raw := fileConfig{}
	raw.setDefaults()
	return raw.resolve()
}

// Load locates and parses the config file, falling back to defaults when it
// is missing. Values that are present must validate.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw fileConfig
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	raw.setDefaults()

	if err := validator.New().Struct(raw); err != nil {
		return Config{}, fmt.Errorf("config validation error: %w", err)
	}
	if !slices.Contains(raw.PageSizes, raw.DefaultPageSize) {
		return Config{}, fmt.Errorf("config validation error: default_page_size %d is not one of page_sizes %v", raw.DefaultPageSize, raw.PageSizes)
	}

	return raw.resolve(), nil
}

func (c *fileConfig) setDefaults() {
	c.APIBase = strings.TrimSpace(c.APIBase)
	if c.APIBase == "" {
		c.APIBase = defaultAPIBase
	}
	if c.RequestTimeoutMS == 0 {
		c.RequestTimeoutMS = defaultRequestTimeout
	}
	if c.DebounceMS == 0 {
		c.DebounceMS = defaultDebounce
	}
	if len(c.PageSizes) == 0 {
		c.PageSizes = slices.Clone(defaultPageSizes)
	}
	if c.DefaultPageSize == 0 {
		c.DefaultPageSize = c.PageSizes[0]
		if slices.Contains(c.PageSizes, defaultPageSize) {
			c.DefaultPageSize = defaultPageSize
		}
	}
	if c.CacheTTLMS == 0 {
		c.CacheTTLMS = defaultCacheTTL
	}
	if c.CacheSize == 0 {
		c.CacheSize = defaultCacheSize
	}
	if c.PollSeconds == 0 {
		c.PollSeconds = defaultPollSeconds
	}
	c.LogFile = strings.TrimSpace(c.LogFile)
	if c.LogFile == "" {
		c.LogFile = defaultLogFile
	}
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	if c.LogLevel == "" {
		c.LogLevel = defaultLogLevel
	}
}

func (c fileConfig) resolve() Config {
	cfg := Config{
		APIBase:         c.APIBase,
		RequestTimeout:  time.Duration(c.RequestTimeoutMS) * time.Millisecond,
		Debounce:        time.Duration(c.DebounceMS) * time.Millisecond,
		PageSizes:       slices.Clone(c.PageSizes),
		DefaultPageSize: c.DefaultPageSize,
		CacheTTL:        time.Duration(c.CacheTTLMS) * time.Millisecond,
		CacheSize:       c.CacheSize,
		PollInterval:    time.Duration(c.PollSeconds) * time.Second,
		LogLevel:        c.LogLevel,
	}
	if c.LogLevel != "disabled" {
		cfg.LogFile = mustExpand(c.LogFile)
	}
	return cfg
}

// DefaultPath returns the default config file path.
func DefaultPath() string {
	return defaultConfigPath
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

// ExpandPath resolves a leading ~ and makes path absolute.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
