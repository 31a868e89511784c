package main

import (
	"log/slog"
	"net/http"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Category    string  `json:"category,omitempty"`
	Price       float64 `json:"price,omitempty"`
	ImageURL    string  `json:"image_url,omitempty"`
}

type SearchResultItem struct {
	Product
	Similarity float64 `json:"similarity"`
}

type SearchRequest struct {
	Query string `json:"query" binding:"required"`
	Model string `json:"model"`
	TopK  int    `json:"top_k"`
}

type SearchResponse struct {
	Query        string             `json:"query"`
	Model        string             `json:"model"`
	Products     []SearchResultItem `json:"products"`
	TotalResults int                `json:"total_results"`
}

type Category struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

var knownModels = map[string]bool{
	"CLIP":   true,
	"SigLIP": true,
	"DFN5B":  true,
	"EVA02":  true,
}

var catalog = []Product{
	{ID: "p1", Name: "Red Cotton Shirt", Description: "Classic red button-down shirt", Category: "tops", Price: 39.99, ImageURL: "/images/p1.jpg"},
	{ID: "p2", Name: "Crimson Tee", Description: "Soft crimson t-shirt", Category: "tops", Price: 19.99, ImageURL: "/images/p2.jpg"},
	{ID: "p3", Name: "Blue Denim Jeans", Description: "Slim-fit blue jeans", Category: "bottoms", Price: 59.99, ImageURL: "/images/p3.jpg"},
	{ID: "p4", Name: "Black Leather Jacket", Description: "Biker-style leather jacket", Category: "outerwear", Price: 149.99, ImageURL: "/images/p4.jpg"},
	{ID: "p5", Name: "Green Wool Scarf", Description: "Warm green winter scarf", Category: "accessories", Price: 24.99, ImageURL: "/images/p5.jpg"},
	{ID: "p6", Name: "White Sneakers", Description: "Low-top canvas sneakers", Category: "shoes", Price: 49.99, ImageURL: "/images/p6.jpg"},
	{ID: "p7", Name: "Navy Hoodie", Description: "Fleece-lined navy hoodie", Category: "tops", Price: 44.99, ImageURL: "/images/p7.jpg"},
	{ID: "p8", Name: "Floral Summer Dress", Description: "Lightweight floral dress", Category: "dresses", Price: 64.99, ImageURL: "/images/p8.jpg"},
}

// score fakes semantic similarity with word overlap so that results are
// deterministic and plausibly ranked.
func score(query string, p Product) float64 {
	haystack := strings.ToLower(p.Name + " " + p.Description + " " + p.Category)
	words := strings.Fields(strings.ToLower(query))
	if len(words) == 0 {
		return 0
	}

	matched := 0
	for _, word := range words {
		if strings.Contains(haystack, word) {
			matched++
		}
	}
	return float64(matched) / float64(len(words))
}

func categories() []Category {
	counts := map[string]int{}
	for _, p := range catalog {
		counts[p.Category]++
	}

	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)

	result := make([]Category, 0, len(names))
	for _, name := range names {
		result = append(result, Category{Name: name, Count: counts[name]})
	}
	return result
}

func main() {
	gin.SetMode(gin.ReleaseMode)
	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.POST("/search-products", func(c *gin.Context) {
		var req SearchRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "query is required"})
			return
		}

		if req.Model != "" && !knownModels[req.Model] {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown model: " + req.Model})
			return
		}

		if strings.EqualFold(req.Query, "servererror") {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}

		if strings.EqualFold(req.Query, "timeout") {
			c.Header("Connection", "close")
			c.AbortWithStatus(http.StatusRequestTimeout)
			return
		}

		topK := req.TopK
		if topK <= 0 {
			topK = 10
		}

		results := make([]SearchResultItem, 0, len(catalog))
		for _, p := range catalog {
			if s := score(req.Query, p); s > 0 {
				results = append(results, SearchResultItem{Product: p, Similarity: s})
			}
		}
		sort.SliceStable(results, func(i, j int) bool {
			return results[i].Similarity > results[j].Similarity
		})
		if len(results) > topK {
			results = results[:topK]
		}

		c.JSON(http.StatusOK, SearchResponse{
			Query:        req.Query,
			Model:        req.Model,
			Products:     results,
			TotalResults: len(results),
		})
	})

	r.GET("/products", func(c *gin.Context) {
		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
		if page < 1 || limit < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "page and limit must be positive"})
			return
		}

		start := (page - 1) * limit
		end := start + limit
		if start > len(catalog) {
			start = len(catalog)
		}
		if end > len(catalog) {
			end = len(catalog)
		}

		c.JSON(http.StatusOK, gin.H{
			"products": catalog[start:end],
			"page":     page,
			"limit":    limit,
			"total":    len(catalog),
			"has_more": end < len(catalog),
		})
	})

	r.GET("/categories", func(c *gin.Context) {
		c.JSON(http.StatusOK, categories())
	})

	slog.Info("Mock search backend starting on :8000")
	if err := r.Run(":8000"); err != nil {
		slog.Error("Failed to start server", "error", err)
		os.Exit(1)
	}
}
