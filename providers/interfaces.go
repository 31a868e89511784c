package providers

import (
	"context"

	"semsearch.app/models"
)

// SearchProvider defines the interface for product search providers
type SearchProvider interface {
	Search(ctx context.Context, req *models.SearchRequest) (*models.SearchResponse, error)
}

// Encoder defines the interface for embedding encoders. Implementations are
// external collaborators (an on-device model runtime or a remote embedding
// service); failures surface as errors and are handled per call site.
type Encoder interface {
	EncodeText(ctx context.Context, text string) ([]float32, error)
	EncodeImage(ctx context.Context, imageURL string) ([]float32, error)
	Model() string
	Dimensions() int
}
