package index

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestIndex() *SimilarityIndex {
	return NewSimilarityIndex(Config{
		Dimension:  3,
		BatchSize:  2,
		BatchYield: 1, // keep tests fast
	})
}

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []float32
		expected float64
	}{
		{name: "Identical", a: []float32{1, 2, 3}, b: []float32{1, 2, 3}, expected: 1},
		{name: "Orthogonal", a: []float32{1, 0, 0}, b: []float32{0, 1, 0}, expected: 0},
		{name: "Opposite", a: []float32{1, 2, 3}, b: []float32{-1, -2, -3}, expected: -1},
		{name: "ZeroNorm", a: []float32{0, 0, 0}, b: []float32{1, 2, 3}, expected: 0},
		{name: "BothZero", a: []float32{0, 0, 0}, b: []float32{0, 0, 0}, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, cosineSimilarity(tt.a, tt.b), 1e-9)
		})
	}
}

func TestSimilarityIndex_UpsertAndSize(t *testing.T) {
	idx := newTestIndex()

	idx.Upsert("a", []float32{1, 0, 0})
	idx.Upsert("b", []float32{0, 1, 0})
	assert.Equal(t, 2, idx.Size())
	assert.True(t, idx.Has("a"))

	// Overwrite is not an error and does not grow the index.
	idx.Upsert("a", []float32{0, 0, 1})
	assert.Equal(t, 2, idx.Size())

	idx.Clear()
	assert.Equal(t, 0, idx.Size())
	assert.False(t, idx.Has("a"))
}

// The index takes the resilient option for mismatched dimensions: the vector
// is rejected with a warning instead of surfacing an error, and the id stays
// unindexed so a later encode can retry.
func TestSimilarityIndex_DimensionMismatchRejectedOnUpsert(t *testing.T) {
	idx := newTestIndex()

	idx.Upsert("bad", []float32{1, 0})
	assert.False(t, idx.Has("bad"))
	assert.Equal(t, 0, idx.Size())
}

func TestSimilarityIndex_QuerySkipsMismatchedDimensions(t *testing.T) {
	idx := NewSimilarityIndex(Config{}) // no fixed dimension

	idx.Upsert("three", []float32{1, 0, 0})
	idx.Upsert("two", []float32{1, 0})

	results := idx.Query([]float32{1, 0, 0}, nil, 10)
	require.Len(t, results, 1)
	assert.Equal(t, "three", results[0].ID)
}

func TestSimilarityIndex_TopKOrdering(t *testing.T) {
	idx := newTestIndex()
	query := []float32{1, 0, 0}

	// Known similarities to the query: 0.9, 0.5, 0.8, 0.2 (up to normalization).
	idx.Upsert("s09", unit(0.9))
	idx.Upsert("s05", unit(0.5))
	idx.Upsert("s08", unit(0.8))
	idx.Upsert("s02", unit(0.2))

	results := idx.Query(query, nil, 2)
	require.Len(t, results, 2)
	assert.Equal(t, "s09", results[0].ID)
	assert.Equal(t, "s08", results[1].ID)
	assert.Greater(t, results[0].Score, results[1].Score)
}

// unit builds a unit vector whose cosine against (1,0,0) is c.
func unit(c float64) []float32 {
	return []float32{float32(c), float32(math.Sqrt(1 - c*c)), 0}
}

func TestSimilarityIndex_RelevanceThresholdFiltersOpposite(t *testing.T) {
	idx := newTestIndex()

	idx.Upsert("match", []float32{1, 0, 0})
	idx.Upsert("opposite", []float32{-1, 0, 0})
	idx.Upsert("orthogonal", []float32{0, 1, 0})

	// Threshold 0.1 drops both the orthogonal (0) and opposite (-1) vectors.
	results := idx.Query([]float32{1, 0, 0}, nil, 10)
	require.Len(t, results, 1)
	assert.Equal(t, "match", results[0].ID)
}

func TestSimilarityIndex_TieBreakKeepsInputOrder(t *testing.T) {
	idx := newTestIndex()

	idx.Upsert("first", []float32{1, 0, 0})
	idx.Upsert("second", []float32{1, 0, 0})

	results := idx.Query([]float32{1, 0, 0}, []string{"first", "second"}, 10)
	require.Len(t, results, 2)
	assert.Equal(t, "first", results[0].ID)
	assert.Equal(t, "second", results[1].ID)
}

func TestSimilarityIndex_QueryWithCandidateSubset(t *testing.T) {
	idx := newTestIndex()

	idx.Upsert("in", []float32{1, 0, 0})
	idx.Upsert("out", []float32{1, 0, 0})

	results := idx.Query([]float32{1, 0, 0}, []string{"in", "unknown"}, 10)
	require.Len(t, results, 1)
	assert.Equal(t, "in", results[0].ID)
}

func TestSimilarityIndex_EncodeAndUpsertBatch(t *testing.T) {
	idx := newTestIndex()

	items := make([]Item, 5)
	for i := range items {
		items[i] = Item{ID: fmt.Sprintf("item-%d", i), Text: fmt.Sprintf("text %d", i)}
	}

	encodeCalls := 0
	encode := func(ctx context.Context, item Item) ([]float32, error) {
		encodeCalls++
		if item.ID == "item-2" {
			return nil, fmt.Errorf("model rejected input")
		}
		return []float32{1, 0, 0}, nil
	}

	require.NoError(t, idx.EncodeAndUpsertBatch(context.Background(), items, encode))

	// Item 2 failed and was skipped; the other four are indexed and queryable.
	assert.Equal(t, 5, encodeCalls)
	assert.Equal(t, 4, idx.Size())
	assert.False(t, idx.Has("item-2"))

	results := idx.Query([]float32{1, 0, 0}, nil, 10)
	assert.Len(t, results, 4)
}

func TestSimilarityIndex_EncodeBatchSkipsAlreadyIndexed(t *testing.T) {
	idx := newTestIndex()
	idx.Upsert("done", []float32{1, 0, 0})

	encodeCalls := 0
	encode := func(ctx context.Context, item Item) ([]float32, error) {
		encodeCalls++
		return []float32{0, 1, 0}, nil
	}

	items := []Item{{ID: "done"}, {ID: "new"}}
	require.NoError(t, idx.EncodeAndUpsertBatch(context.Background(), items, encode))

	assert.Equal(t, 1, encodeCalls)
	assert.Equal(t, 2, idx.Size())
}

func TestSimilarityIndex_EncodeBatchHonorsCancellation(t *testing.T) {
	idx := newTestIndex()

	ctx, cancel := context.WithCancel(context.Background())

	items := make([]Item, 6)
	for i := range items {
		items[i] = Item{ID: fmt.Sprintf("item-%d", i)}
	}

	encode := func(ctx context.Context, item Item) ([]float32, error) {
		if item.ID == "item-1" {
			cancel() // cancel mid-first-batch; the pause between batches notices
		}
		return []float32{1, 0, 0}, nil
	}

	err := idx.EncodeAndUpsertBatch(ctx, items, encode)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, idx.Size(), 6)
}
