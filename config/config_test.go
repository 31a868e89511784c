package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Run("DefaultValues", func(t *testing.T) {
		os.Clearenv()

		config, err := LoadConfig()
		require.NoError(t, err)
		require.NotNil(t, config)

		assert.Equal(t, "http://localhost:8000", config.Backend.BaseURL)
		assert.Equal(t, "/search-products", config.Backend.SearchPath)
		assert.Equal(t, 10*time.Second, config.Backend.Timeout)
		assert.Equal(t, "CLIP", config.Backend.DefaultModel)
		assert.Equal(t, map[string]string{
			"CLIP":   "/search/clip",
			"SigLIP": "/search/siglip",
			"DFN5B":  "/search/dfn5b",
			"EVA02":  "/search/eva02",
		}, config.Backend.ModelPaths)

		assert.Equal(t, "semsearch_", config.Cache.KeyPrefix)
		assert.Equal(t, 5*time.Minute, config.Cache.ProductsTTL)
		assert.Equal(t, 10*time.Minute, config.Cache.CategoriesTTL)
		assert.Equal(t, 2*time.Minute, config.Cache.SearchResultsTTL)
		assert.Equal(t, int64(5242880), config.Cache.QuotaBytes)
		assert.Equal(t, "localhost:6379", config.Cache.Redis.Addr)

		assert.Equal(t, 512, config.Index.Dimension)
		assert.Equal(t, 8, config.Index.BatchSize)
		assert.Equal(t, 10*time.Millisecond, config.Index.BatchYield)
		assert.InDelta(t, 0.1, config.Index.RelevanceThreshold, 1e-9)
	})

	t.Run("CustomValues", func(t *testing.T) {
		os.Clearenv()
		require.NoError(t, os.Setenv("SEARCH_BACKEND_URL", "https://search.example.com"))
		require.NoError(t, os.Setenv("SEARCH_BACKEND_TIMEOUT", "3s"))
		require.NoError(t, os.Setenv("CACHE_SEARCH_RESULTS_TTL", "30s"))
		require.NoError(t, os.Setenv("INDEX_DIMENSION", "768"))

		config, err := LoadConfig()
		require.NoError(t, err)

		assert.Equal(t, "https://search.example.com", config.Backend.BaseURL)
		assert.Equal(t, 3*time.Second, config.Backend.Timeout)
		assert.Equal(t, 30*time.Second, config.Cache.SearchResultsTTL)
		assert.Equal(t, 768, config.Index.Dimension)
	})

	t.Run("InvalidValues", func(t *testing.T) {
		tests := []struct {
			name  string
			key   string
			value string
		}{
			{name: "BadBackendURL", key: "SEARCH_BACKEND_URL", value: "not-a-url"},
			{name: "BadSearchPath", key: "SEARCH_BACKEND_SEARCH_PATH", value: "search"},
			{name: "BadModelPath", key: "SEARCH_MODEL_PATHS", value: "CLIP:clip"},
			{name: "UnregisteredDefaultModel", key: "SEARCH_DEFAULT_MODEL", value: "DALLE"},
			{name: "EmptyKeyPrefix", key: "CACHE_KEY_PREFIX", value: ""},
			{name: "NegativeQuota", key: "CACHE_QUOTA_BYTES", value: "-1"},
			{name: "ZeroDimension", key: "INDEX_DIMENSION", value: "0"},
			{name: "ZeroBatchSize", key: "INDEX_BATCH_SIZE", value: "0"},
			{name: "ThresholdOutOfRange", key: "INDEX_RELEVANCE_THRESHOLD", value: "1.5"},
			{name: "ZeroTTL", key: "CACHE_PRODUCTS_TTL", value: "0s"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				os.Clearenv()
				require.NoError(t, os.Setenv(tt.key, tt.value))

				config, err := LoadConfig()
				assert.Error(t, err)
				assert.Nil(t, config)
			})
		}
	})
}
