// Package index provides the in-memory vector similarity index used by the
// on-device search path. One index instance serves one embedding model and
// lives for the process lifetime; it is never persisted.
package index

import (
	"context"
	"log/slog"
	"math"
	"sort"
	"sync"
	"time"
)

// DefaultRelevanceThreshold filters out near-noise matches. The value is a
// tunable constant observed to work in practice, not a calibrated one.
const DefaultRelevanceThreshold = 0.1

const (
	defaultBatchSize  = 8
	defaultBatchYield = 10 * time.Millisecond
)

// Item is one candidate to encode: a text or an image reference, whichever
// the encode function knows how to handle.
type Item struct {
	ID       string
	Text     string
	ImageURL string
}

// EncodeFunc turns one item into an embedding vector. It is an injected
// collaborator; failures are per-item and surface as errors here.
type EncodeFunc func(ctx context.Context, item Item) ([]float32, error)

// Result is one ranked match.
type Result struct {
	ID    string  `json:"id"`
	Score float64 `json:"score"`
}

// Config tunes a SimilarityIndex. Zero fields fall back to defaults.
type Config struct {
	Dimension          int
	BatchSize          int
	BatchYield         time.Duration
	RelevanceThreshold float64
}

// SimilarityIndex maps item identifiers to fixed-length embedding vectors
// and ranks them against a query vector by cosine similarity. Concurrent
// upserts for the same id are last-writer-wins; vectors for the same id from
// the same model are expected to be identical, so no stricter discipline is
// needed.
type SimilarityIndex struct {
	mu        sync.RWMutex
	vectors   map[string][]float32
	order     []string // insertion order, keeps tie-breaking stable
	dimension int
	batchSize int
	yield     time.Duration
	threshold float64
}

func NewSimilarityIndex(cfg Config) *SimilarityIndex {
	if cfg.BatchSize < 1 {
		cfg.BatchSize = defaultBatchSize
	}
	if cfg.BatchYield <= 0 {
		cfg.BatchYield = defaultBatchYield
	}
	if cfg.RelevanceThreshold == 0 {
		cfg.RelevanceThreshold = DefaultRelevanceThreshold
	}

	return &SimilarityIndex{
		vectors:   make(map[string][]float32),
		dimension: cfg.Dimension,
		batchSize: cfg.BatchSize,
		yield:     cfg.BatchYield,
		threshold: cfg.RelevanceThreshold,
	}
}

// Upsert stores or overwrites the vector for id. A vector whose length does
// not match the index dimension is rejected with a warning rather than
// poisoning later comparisons; the id stays unindexed so a retry can fix it.
func (idx *SimilarityIndex) Upsert(id string, vector []float32) {
	if idx.dimension > 0 && len(vector) != idx.dimension {
		slog.Warn("vector dimension mismatch, not indexing",
			"id", id, "got", len(vector), "want", idx.dimension)
		return
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	if _, exists := idx.vectors[id]; !exists {
		idx.order = append(idx.order, id)
	}
	idx.vectors[id] = vector
}

// Has reports whether id is indexed.
func (idx *SimilarityIndex) Has(id string) bool {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	_, exists := idx.vectors[id]
	return exists
}

// Size returns the current vector count.
func (idx *SimilarityIndex) Size() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return len(idx.vectors)
}

// Clear drops all vectors. It is the only way an indexed id becomes
// unindexed again.
func (idx *SimilarityIndex) Clear() {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.vectors = make(map[string][]float32)
	idx.order = nil
}

// EncodeAndUpsertBatch encodes every item not already indexed and upserts
// the results. Items are processed in bounded batches with a brief pause
// between batches so a long candidate list does not monopolize the caller.
// An item whose encode call fails is skipped with a warning; the batch
// continues. Returns early only when ctx is done.
func (idx *SimilarityIndex) EncodeAndUpsertBatch(ctx context.Context, items []Item, encode EncodeFunc) error {
	pending := make([]Item, 0, len(items))
	for _, item := range items {
		if !idx.Has(item.ID) {
			pending = append(pending, item)
		}
	}

	for start := 0; start < len(pending); start += idx.batchSize {
		end := start + idx.batchSize
		if end > len(pending) {
			end = len(pending)
		}

		for _, item := range pending[start:end] {
			vector, err := encode(ctx, item)
			if err != nil {
				slog.Warn("encode failed, skipping item", "id", item.ID, "error", err)
				continue
			}
			idx.Upsert(item.ID, vector)
		}

		if end < len(pending) {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(idx.yield):
			}
		}
	}
	return nil
}

// Query ranks candidateIDs (or the whole index when nil) against queryVector
// by cosine similarity, drops scores below the relevance threshold, and
// returns the topK best in descending order. Ties keep insertion order.
// Vectors whose dimension does not match the query are skipped with a warning.
func (idx *SimilarityIndex) Query(queryVector []float32, candidateIDs []string, topK int) []Result {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	ids := candidateIDs
	if ids == nil {
		ids = idx.order
	}

	results := make([]Result, 0, len(ids))
	for _, id := range ids {
		vector, exists := idx.vectors[id]
		if !exists {
			continue
		}
		if len(vector) != len(queryVector) {
			slog.Warn("skipping vector with mismatched dimension",
				"id", id, "got", len(vector), "want", len(queryVector))
			continue
		}

		score := cosineSimilarity(queryVector, vector)
		if score < idx.threshold {
			continue
		}
		results = append(results, Result{ID: id, Score: score})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if topK > 0 && len(results) > topK {
		results = results[:topK]
	}
	return results
}

// cosineSimilarity computes dot(a,b) / (|a| * |b|), defined as 0 when either
// norm is 0. Callers guarantee equal lengths.
func cosineSimilarity(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	denom := math.Sqrt(normA) * math.Sqrt(normB)
	if denom == 0 {
		return 0
	}
	return dot / denom
}
