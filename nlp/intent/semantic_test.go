package intent

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEmbedder maps known texts to fixed vectors.
type fakeEmbedder struct {
	vectors map[string][]float32
	fail    bool
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := f.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func (f *fakeEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	if f.fail {
		return nil, errors.New("embedding backend down")
	}
	result := make([][]float32, len(texts))
	for i, text := range texts {
		if v, ok := f.vectors[text]; ok {
			result[i] = v
		} else {
			result[i] = []float32{0, 0, 1}
		}
	}
	return result, nil
}

func TestSemanticClassifier(t *testing.T) {
	ctx := context.Background()

	embedder := &fakeEmbedder{vectors: map[string][]float32{
		labelDescriptions["track_order"]: {1, 0, 0},
		labelDescriptions["greet"]:       {0, 1, 0},
		"where is my parcel":             {0.9, 0.1, 0},
		"good morning":                   {0.1, 0.9, 0},
	}}

	classifier, err := NewSemanticClassifier(ctx, embedder)
	require.NoError(t, err)
	assert.Equal(t, "semantic", classifier.Name())

	result, ok := classifier.Classify(ctx, "where is my parcel")
	require.True(t, ok)
	assert.Equal(t, "track_order", result.Intent)
	assert.Greater(t, result.Confidence, 0.0)
	assert.LessOrEqual(t, result.Confidence, 1.0)
	require.Len(t, result.Meta, len(Recognized))

	var total float64
	for _, score := range result.Meta {
		total += score
	}
	assert.InDelta(t, 1.0, total, 1e-9, "meta is a probability distribution over labels")

	result, ok = classifier.Classify(ctx, "good morning")
	require.True(t, ok)
	assert.Equal(t, "greet", result.Intent)
}

func TestSemanticClassifierUnavailable(t *testing.T) {
	ctx := context.Background()

	_, err := NewSemanticClassifier(ctx, &fakeEmbedder{fail: true})
	assert.Error(t, err, "label embedding failure makes the tier unbuildable")

	embedder := &fakeEmbedder{vectors: map[string][]float32{}}
	classifier, err := NewSemanticClassifier(ctx, embedder)
	require.NoError(t, err)

	embedder.fail = true
	_, ok := classifier.Classify(ctx, "anything")
	assert.False(t, ok, "query embedding failure falls through the cascade")
}
