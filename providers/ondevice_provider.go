package providers

import (
	"context"
	"fmt"

	"semsearch.app/index"
	"semsearch.app/models"
	"semsearch.app/pkg/errors"
	"semsearch.app/pkg/validation"
)

// OnDeviceSearchProvider answers cross-modal searches locally: candidate
// product images are embedded into the similarity index on demand, the query
// text is embedded, and the index ranks candidates by cosine similarity. No
// network round trip per search once candidates are indexed.
type OnDeviceSearchProvider struct {
	loader     *EncoderLoader
	idx        *index.SimilarityIndex
	candidates []models.Product
	byID       map[string]models.Product
}

func NewOnDeviceSearchProvider(loader *EncoderLoader, idx *index.SimilarityIndex, candidates []models.Product) *OnDeviceSearchProvider {
	p := &OnDeviceSearchProvider{
		loader: loader,
		idx:    idx,
	}
	p.SetCandidates(candidates)
	return p
}

// SetCandidates replaces the candidate set. The caller's slice is copied,
// never retained or mutated.
func (p *OnDeviceSearchProvider) SetCandidates(candidates []models.Product) {
	p.candidates = make([]models.Product, len(candidates))
	copy(p.candidates, candidates)

	p.byID = make(map[string]models.Product, len(candidates))
	for _, product := range p.candidates {
		p.byID[product.ID] = product
	}
}

// Search embeds any not-yet-indexed candidates, embeds the query, and ranks.
// A candidate that fails to encode is skipped; a query that fails to encode
// fails the whole call, since without it there is nothing to rank against.
func (p *OnDeviceSearchProvider) Search(ctx context.Context, req *models.SearchRequest) (*models.SearchResponse, error) {
	query, ok := validation.TrimAndValidate(req.Query)
	if !ok {
		return nil, errors.NewValidationError("query cannot be empty")
	}
	if !validation.IsValidTopK(req.TopK) {
		return nil, errors.NewValidationError(fmt.Sprintf("top_k out of range: %d", req.TopK))
	}

	encoder, err := p.loader.Load(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]index.Item, 0, len(p.candidates))
	ids := make([]string, 0, len(p.candidates))
	for _, product := range p.candidates {
		items = append(items, index.Item{
			ID:       product.ID,
			Text:     product.Name,
			ImageURL: product.ImageURL,
		})
		ids = append(ids, product.ID)
	}

	if err := p.idx.EncodeAndUpsertBatch(ctx, items, p.encodeItem(encoder)); err != nil {
		return nil, errors.NewEncodeError("candidate encoding interrupted", err)
	}

	queryVector, err := encoder.EncodeText(ctx, query)
	if err != nil {
		return nil, errors.NewEncodeError("failed to encode query", err)
	}

	ranked := p.idx.Query(queryVector, ids, req.TopK)

	results := make([]models.SearchResultItem, 0, len(ranked))
	for _, match := range ranked {
		product, exists := p.byID[match.ID]
		if !exists {
			continue
		}
		results = append(results, models.SearchResultItem{
			Product:    product,
			Similarity: match.Score,
		})
	}

	return &models.SearchResponse{
		Query:        req.Query,
		Model:        encoder.Model(),
		Products:     results,
		TotalResults: len(results),
		Source:       models.SourceOnDevice,
	}, nil
}

// encodeItem prefers the image embedding for cross-modal matching and falls
// back to the product name for items without an image.
func (p *OnDeviceSearchProvider) encodeItem(encoder Encoder) index.EncodeFunc {
	return func(ctx context.Context, item index.Item) ([]float32, error) {
		if item.ImageURL != "" {
			return encoder.EncodeImage(ctx, item.ImageURL)
		}
		return encoder.EncodeText(ctx, item.Text)
	}
}
