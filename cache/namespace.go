package cache

import (
	"time"

	"semsearch.app/config"
)

// Namespace is a named cache partition with its own key prefix and fixed TTL.
// Namespaces are statically enumerated at construction; nothing creates one
// at runtime.
type Namespace struct {
	Name   string
	Prefix string
	TTL    time.Duration
	// Singleton namespaces hold exactly one entry under the bare prefix,
	// e.g. the category list. Parameterized namespaces append a derived
	// suffix per entry.
	Singleton bool
}

// Namespaces enumerates every cache partition the application uses.
type Namespaces struct {
	Products      Namespace
	Categories    Namespace
	SearchResults Namespace
}

// NewNamespaces builds the static namespace set from configuration. All
// prefixes share cfg.KeyPrefix so ClearAll can find every key this system owns.
func NewNamespaces(cfg *config.CacheConfig) Namespaces {
	return Namespaces{
		Products: Namespace{
			Name:   "products",
			Prefix: cfg.KeyPrefix + "products:",
			TTL:    cfg.ProductsTTL,
		},
		Categories: Namespace{
			Name:      "categories",
			Prefix:    cfg.KeyPrefix + "categories",
			TTL:       cfg.CategoriesTTL,
			Singleton: true,
		},
		SearchResults: Namespace{
			Name:   "search-results",
			Prefix: cfg.KeyPrefix + "search:",
			TTL:    cfg.SearchResultsTTL,
		},
	}
}

// All returns the namespaces in a stable order, used by Stats.
func (n Namespaces) All() []Namespace {
	return []Namespace{n.Products, n.Categories, n.SearchResults}
}
