package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"semsearch.app/config"
	"semsearch.app/models"
	"semsearch.app/pkg/errors"
)

// RemoteSearchProvider calls the remote embedding search backend. It imposes
// no timeout of its own beyond the HTTP client's, which comes from
// configuration.
type RemoteSearchProvider struct {
	baseURL    string
	searchPath string
	client     *http.Client
	validate   *validator.Validate
}

type backendSearchRequest struct {
	Query string `json:"query"`
	Model string `json:"model"`
	TopK  int    `json:"top_k"`
}

type backendSearchResponse struct {
	Query        string                    `json:"query"`
	Model        string                    `json:"model"`
	Products     []models.SearchResultItem `json:"products"`
	TotalResults int                       `json:"total_results"`
}

// NewRemoteSearchProvider creates a provider for a single-model backend
// serving search on cfg.SearchPath.
func NewRemoteSearchProvider(cfg *config.BackendConfig) *RemoteSearchProvider {
	return &RemoteSearchProvider{
		baseURL:    cfg.BaseURL,
		searchPath: cfg.SearchPath,
		client:     &http.Client{Timeout: cfg.Timeout},
		validate:   validator.New(),
	}
}

// NewRemoteSearchProviders builds one provider per entry in the model
// registry, each posting to its own search path on the shared backend.
func NewRemoteSearchProviders(cfg *config.BackendConfig) map[string]SearchProvider {
	byModel := make(map[string]SearchProvider, len(cfg.ModelPaths))
	for model, path := range cfg.ModelPaths {
		byModel[model] = &RemoteSearchProvider{
			baseURL:    cfg.BaseURL,
			searchPath: path,
			client:     &http.Client{Timeout: cfg.Timeout},
			validate:   validator.New(),
		}
	}
	return byModel
}

// Search posts the query to the backend and returns the ranked products
// tagged as network-sourced. Network errors and non-2xx statuses come back
// as backend errors; the caller decides what to show the user.
func (p *RemoteSearchProvider) Search(ctx context.Context, req *models.SearchRequest) (*models.SearchResponse, error) {
	if err := p.validate.Struct(req); err != nil {
		return nil, errors.NewValidationError(fmt.Sprintf("invalid search request: %v", err))
	}

	body, err := json.Marshal(backendSearchRequest{
		Query: req.Query,
		Model: req.Model,
		TopK:  req.TopK,
	})
	if err != nil {
		return nil, errors.NewSerializationError("failed to encode search request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+p.searchPath, bytes.NewReader(body))
	if err != nil {
		return nil, errors.NewBackendError("failed to build search request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, errors.NewBackendError("search backend unreachable", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errors.NewBackendError(fmt.Sprintf("search backend returned status %d", resp.StatusCode), nil)
	}

	var backendResp backendSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&backendResp); err != nil {
		return nil, errors.NewBackendError("failed to decode search response", err)
	}

	return &models.SearchResponse{
		Query:        backendResp.Query,
		Model:        backendResp.Model,
		Products:     backendResp.Products,
		TotalResults: backendResp.TotalResults,
		Source:       models.SourceNetwork,
	}, nil
}

// Healthy probes the backend health endpoint.
func (p *RemoteSearchProvider) Healthy(ctx context.Context) bool {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/health", nil)
	if err != nil {
		return false
	}

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return false
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	return resp.StatusCode == http.StatusOK
}
