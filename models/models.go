// Package models defines data structures used throughout the application
package models

// Product represents a catalog item returned by the search backend
type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Category    string  `json:"category,omitempty"`
	Price       float64 `json:"price,omitempty"`
	ImageURL    string  `json:"image_url,omitempty"`
}

// ResultSource identifies where a search response was produced
type ResultSource string

const (
	SourceCache    ResultSource = "cache"
	SourceNetwork  ResultSource = "network"
	SourceOnDevice ResultSource = "on-device"
)

// SearchResultItem pairs a product with its similarity score.
// Within one response items are ordered by descending similarity.
type SearchResultItem struct {
	Product
	Similarity float64 `json:"similarity"`
}

// SearchRequest represents the parameters of one search call
type SearchRequest struct {
	Query    string `json:"query" validate:"required"`
	Model    string `json:"model" validate:"required"`
	TopK     int    `json:"top_k" validate:"gte=1,lte=100"`
	UseCache bool   `json:"-"`
}

// SearchResponse represents ranked products for one query
type SearchResponse struct {
	Query        string             `json:"query"`
	Model        string             `json:"model"`
	Products     []SearchResultItem `json:"products"`
	TotalResults int                `json:"total_results"`
	Source       ResultSource       `json:"source"`
}

// Category represents a product category with its item count
type Category struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// ProductPage represents one page of the paginated product listing
type ProductPage struct {
	Products []Product `json:"products"`
	Page     int       `json:"page"`
	Limit    int       `json:"limit"`
	Total    int       `json:"total"`
	HasMore  bool      `json:"has_more"`
}

// ErrorResponse represents an error message structure for backend responses
type ErrorResponse struct {
	Error string `json:"error"`
}
