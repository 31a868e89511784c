package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"semsearch.app/pkg/errors"
)

// Config represents the application configuration structure
type Config struct {
	Backend BackendConfig `split_words:"true"`
	Cache   CacheConfig   `split_words:"true"`
	Index   IndexConfig   `split_words:"true"`
}

// BackendConfig contains settings for the remote search backend
type BackendConfig struct {
	BaseURL string `envconfig:"SEARCH_BACKEND_URL" default:"http://localhost:8000"`
	// SearchPath is the path a single-model backend serves ranked product
	// search on.
	SearchPath string `envconfig:"SEARCH_BACKEND_SEARCH_PATH" default:"/search-products"`
	// ModelPaths is the model registry for a unified backend: each embedding
	// model identity maps to its own search path.
	ModelPaths map[string]string `envconfig:"SEARCH_MODEL_PATHS" default:"CLIP:/search/clip,SigLIP:/search/siglip,DFN5B:/search/dfn5b,EVA02:/search/eva02"`
	// Timeout bounds every backend call; the facade itself imposes none.
	Timeout time.Duration `envconfig:"SEARCH_BACKEND_TIMEOUT" default:"10s"`
	// DefaultModel answers requests that do not name a model. It must be
	// registered in ModelPaths.
	DefaultModel string `envconfig:"SEARCH_DEFAULT_MODEL" default:"CLIP"`
}

// CacheConfig contains TTL store and backing storage settings
type CacheConfig struct {
	// KeyPrefix is the reserved prefix shared by every key this system writes,
	// so ClearAll can enumerate them without a directory structure.
	KeyPrefix        string        `envconfig:"CACHE_KEY_PREFIX" default:"semsearch_"`
	ProductsTTL      time.Duration `envconfig:"CACHE_PRODUCTS_TTL" default:"5m"`
	CategoriesTTL    time.Duration `envconfig:"CACHE_CATEGORIES_TTL" default:"10m"`
	SearchResultsTTL time.Duration `envconfig:"CACHE_SEARCH_RESULTS_TTL" default:"2m"`
	// QuotaBytes caps the backing store the way browser local storage does.
	QuotaBytes int64       `envconfig:"CACHE_QUOTA_BYTES" default:"5242880"`
	SQLitePath string      `envconfig:"CACHE_SQLITE_PATH" default:"semsearch-cache.db"`
	Redis      RedisConfig `split_words:"true"`
}

// RedisConfig contains connection settings for the redis-backed storage
type RedisConfig struct {
	Addr         string        `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	Password     string        `envconfig:"REDIS_PASSWORD" default:""`
	DB           int           `envconfig:"REDIS_DB" default:"0"`
	DialTimeout  time.Duration `envconfig:"REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"REDIS_READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `envconfig:"REDIS_WRITE_TIMEOUT" default:"3s"`
}

// IndexConfig contains settings for the similarity index and batch encoding
type IndexConfig struct {
	Dimension int `envconfig:"INDEX_DIMENSION" default:"512"`
	BatchSize int `envconfig:"INDEX_BATCH_SIZE" default:"8"`
	// BatchYield is the pause between encode batches so one batch run
	// does not monopolize the calling goroutine's scheduler slot.
	BatchYield time.Duration `envconfig:"INDEX_BATCH_YIELD" default:"10ms"`
	// RelevanceThreshold filters out near-noise matches. The value is a
	// tunable constant, not a calibrated one.
	RelevanceThreshold float64 `envconfig:"INDEX_RELEVANCE_THRESHOLD" default:"0.1"`
}

// LoadDotEnv loads a .env file when present; a missing file is not an error
func LoadDotEnv() {
	_ = godotenv.Load()
}

// LoadConfig loads and validates application configuration from environment variables
func LoadConfig() (*Config, error) {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		return nil, errors.NewConfigurationError("error processing config", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if err := c.Backend.Validate(); err != nil {
		return err
	}
	if err := c.Cache.Validate(); err != nil {
		return err
	}
	if err := c.Index.Validate(); err != nil {
		return err
	}
	return nil
}

// Validate checks backend configuration
func (b *BackendConfig) Validate() error {
	if b.BaseURL == "" {
		return errors.NewConfigurationError("SEARCH_BACKEND_URL cannot be empty", nil)
	}
	if !strings.HasPrefix(b.BaseURL, "http://") && !strings.HasPrefix(b.BaseURL, "https://") {
		return errors.NewConfigurationError("SEARCH_BACKEND_URL must start with http:// or https://", nil)
	}
	if !strings.HasPrefix(b.SearchPath, "/") {
		return errors.NewConfigurationError("SEARCH_BACKEND_SEARCH_PATH must start with /", nil)
	}
	for model, path := range b.ModelPaths {
		if !strings.HasPrefix(path, "/") {
			return errors.NewConfigurationError(fmt.Sprintf("SEARCH_MODEL_PATHS entry for %s must start with /", model), nil)
		}
	}
	if b.Timeout <= 0 {
		return errors.NewConfigurationError("SEARCH_BACKEND_TIMEOUT must be positive", nil)
	}
	if b.DefaultModel == "" {
		return errors.NewConfigurationError("SEARCH_DEFAULT_MODEL cannot be empty", nil)
	}
	if _, registered := b.ModelPaths[b.DefaultModel]; !registered {
		return errors.NewConfigurationError("SEARCH_DEFAULT_MODEL must be registered in SEARCH_MODEL_PATHS", nil)
	}
	return nil
}

// Validate checks cache configuration
func (c *CacheConfig) Validate() error {
	if c.KeyPrefix == "" {
		return errors.NewConfigurationError("CACHE_KEY_PREFIX cannot be empty", nil)
	}
	for name, ttl := range map[string]time.Duration{
		"CACHE_PRODUCTS_TTL":       c.ProductsTTL,
		"CACHE_CATEGORIES_TTL":     c.CategoriesTTL,
		"CACHE_SEARCH_RESULTS_TTL": c.SearchResultsTTL,
	} {
		if ttl <= 0 {
			return errors.NewConfigurationError(fmt.Sprintf("%s must be positive", name), nil)
		}
	}
	if c.QuotaBytes < 0 {
		return errors.NewConfigurationError("CACHE_QUOTA_BYTES cannot be negative", nil)
	}
	return nil
}

// Validate checks index configuration
func (i *IndexConfig) Validate() error {
	if i.Dimension < 1 {
		return errors.NewConfigurationError("INDEX_DIMENSION must be at least 1", nil)
	}
	if i.BatchSize < 1 {
		return errors.NewConfigurationError("INDEX_BATCH_SIZE must be at least 1", nil)
	}
	if i.BatchYield < 0 {
		return errors.NewConfigurationError("INDEX_BATCH_YIELD cannot be negative", nil)
	}
	if i.RelevanceThreshold < -1 || i.RelevanceThreshold > 1 {
		return errors.NewConfigurationError("INDEX_RELEVANCE_THRESHOLD must be within [-1, 1]", nil)
	}
	return nil
}
