package providers

import (
	"context"
	"fmt"
	"log/slog"

	"semsearch.app/cache"
	"semsearch.app/models"
	"semsearch.app/pkg/errors"
)

const defaultTopK = 10

// SearchCacheProxy is the cache-aware search facade. It consults the TTL
// store before delegating to the real provider for the requested model, and
// caches successful responses under a key derived from the full request
// tuple. Provider failures are never papered over with stale cache.
type SearchCacheProxy struct {
	providers    map[string]SearchProvider
	defaultModel string
	results      cache.Typed[models.SearchResponse]
}

// NewSearchCacheProxy creates the facade over one provider per model
// identifier. Requests that name no model are answered by defaultModel. The
// store is shared, constructed once at application start and passed in by
// reference.
func NewSearchCacheProxy(store *cache.Store, byModel map[string]SearchProvider, defaultModel string) *SearchCacheProxy {
	return &SearchCacheProxy{
		providers:    byModel,
		defaultModel: defaultModel,
		results:      cache.NewTyped[models.SearchResponse](store, store.Namespaces().SearchResults),
	}
}

// Search answers one search call, cache first when the request allows it.
// The caller's request is never mutated; resolved defaults travel in a copy.
func (p *SearchCacheProxy) Search(ctx context.Context, req *models.SearchRequest) (*models.SearchResponse, error) {
	model := req.Model
	if model == "" {
		model = p.defaultModel
	}

	provider, exists := p.providers[model]
	if !exists {
		return nil, errors.NewValidationError(fmt.Sprintf("unknown search model: %s", model))
	}

	topK := req.TopK
	if topK == 0 {
		topK = defaultTopK
	}

	key := cache.DeriveKey(req.Query, model, cache.Options{TopK: topK})

	if req.UseCache {
		if cached, found := p.results.Get(key); found {
			slog.Info("search cache hit", "model", model, "query", req.Query)
			cached.Source = models.SourceCache
			return &cached, nil
		}
		slog.Info("search cache miss", "model", model, "query", req.Query)
	}

	effective := *req
	effective.Model = model
	effective.TopK = topK

	response, err := provider.Search(ctx, &effective)
	if err != nil {
		return nil, err
	}

	p.results.Set(key, *response)

	return response, nil
}

// ClearResults drops every cached search response.
func (p *SearchCacheProxy) ClearResults() {
	p.results.Clear()
}
