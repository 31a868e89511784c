// Package catalog fetches the product listing and category list from the
// backend, caching each through its own TTL namespace. A cache failure only
// costs a round trip; a backend failure is the caller's to handle.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"semsearch.app/cache"
	"semsearch.app/config"
	"semsearch.app/models"
	"semsearch.app/pkg/errors"
)

type Client struct {
	baseURL    string
	client     *http.Client
	products   cache.Typed[models.ProductPage]
	categories cache.Typed[[]models.Category]
}

func NewClient(cfg *config.BackendConfig, store *cache.Store) *Client {
	namespaces := store.Namespaces()
	return &Client{
		baseURL:    cfg.BaseURL,
		client:     &http.Client{Timeout: cfg.Timeout},
		products:   cache.NewTyped[models.ProductPage](store, namespaces.Products),
		categories: cache.NewTyped[[]models.Category](store, namespaces.Categories),
	}
}

// Products returns one page of the listing, cache first. Every (page, limit)
// pair gets its own derived key in the products namespace.
func (c *Client) Products(ctx context.Context, page, limit int) (*models.ProductPage, error) {
	if page < 1 {
		return nil, errors.NewValidationError("page must be at least 1")
	}
	if limit < 1 {
		return nil, errors.NewValidationError("limit must be at least 1")
	}

	key := cache.DeriveKey("", "catalog", cache.Options{Page: page, Limit: limit})
	if cached, found := c.products.Get(key); found {
		return &cached, nil
	}

	url := fmt.Sprintf("%s/products?page=%d&limit=%d", c.baseURL, page, limit)
	var result models.ProductPage
	if err := c.getJSON(ctx, url, &result); err != nil {
		return nil, err
	}

	c.products.Set(key, result)
	return &result, nil
}

// Categories returns the category list, a singleton cache entry.
func (c *Client) Categories(ctx context.Context) ([]models.Category, error) {
	if cached, found := c.categories.Get(""); found {
		return cached, nil
	}

	var result []models.Category
	if err := c.getJSON(ctx, c.baseURL+"/categories", &result); err != nil {
		return nil, err
	}

	c.categories.Set("", result)
	return result, nil
}

// Invalidate drops the cached listing and categories, forcing the next call
// back to the backend.
func (c *Client) Invalidate() {
	c.products.Clear()
	c.categories.Clear()
}

func (c *Client) getJSON(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return errors.NewBackendError("failed to build catalog request", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return errors.NewBackendError("catalog backend unreachable", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return errors.NewBackendError(fmt.Sprintf("catalog backend returned status %d", resp.StatusCode), nil)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.NewBackendError("failed to decode catalog response", err)
	}
	return nil
}
