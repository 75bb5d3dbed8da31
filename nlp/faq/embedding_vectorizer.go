package faq

import (
	"context"

	"github.com/hrygo/chatdesk/ai/embedding"
)

// EmbeddingVectorizer represents texts with a remote embedding model instead
// of the local tf-idf vocabulary. Optional; requires the embedding capability.
type EmbeddingVectorizer struct {
	service embedding.Service
}

func NewEmbeddingVectorizer(service embedding.Service) *EmbeddingVectorizer {
	return &EmbeddingVectorizer{service: service}
}

func (v *EmbeddingVectorizer) Vectorize(ctx context.Context, text string) ([]float64, error) {
	embedded, err := v.service.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	vector := make([]float64, len(embedded))
	for i, value := range embedded {
		vector[i] = float64(value)
	}
	return vector, nil
}
