package intent

import (
	"context"
	"log/slog"
	"math"

	"github.com/hrygo/chatdesk/ai/embedding"
)

// labelDescriptions phrase each intent as natural language so the embedding
// model has something richer than the bare label to score against.
var labelDescriptions = map[string]string{
	"greet":            "the user is greeting or saying hello",
	"goodbye":          "the user is saying goodbye or ending the conversation",
	"thanks":           "the user is thanking the assistant",
	"track_order":      "the user wants to track an order or check delivery status",
	"cancel_order":     "the user wants to cancel an order",
	"refund_status":    "the user is asking about the status of a refund",
	"return_policy":    "the user is asking about the return policy",
	"shipping_info":    "the user is asking about shipping times or costs",
	"payment_issue":    "the user has a problem with a payment or charge",
	"product_info":     "the user is asking about product details or availability",
	"exchange_request": "the user wants to exchange an item for another size or color",
	"complaint":        "the user is complaining about a bad experience",
	"escalate":         "the user wants to talk to a human agent",
}

// SemanticClassifier is the zero-shot cascade tier: it scores the utterance
// against every intent description by embedding similarity. Label vectors are
// computed once at construction; if that fails the tier is unavailable.
type SemanticClassifier struct {
	service      embedding.Service
	labels       []string
	labelVectors [][]float32
}

// NewSemanticClassifier embeds every intent description up front. Returns an
// error when the embedding capability cannot serve the labels; callers should
// then build the cascade without this tier.
func NewSemanticClassifier(ctx context.Context, service embedding.Service) (*SemanticClassifier, error) {
	labels := Recognized

	descriptions := make([]string, len(labels))
	for i, label := range labels {
		descriptions[i] = labelDescriptions[label]
	}

	vectors, err := service.EmbedBatch(ctx, descriptions)
	if err != nil {
		return nil, err
	}

	return &SemanticClassifier{
		service:      service,
		labels:       labels,
		labelVectors: vectors,
	}, nil
}

func (c *SemanticClassifier) Name() string {
	return "semantic"
}

// Classify embeds the utterance and softmaxes its cosine similarity to every
// label vector. The top label's softmax weight is the confidence and the full
// label distribution goes into the result meta.
func (c *SemanticClassifier) Classify(ctx context.Context, text string) (Result, bool) {
	queryVector, err := c.service.Embed(ctx, text)
	if err != nil {
		slog.Warn("intent: semantic tier embed failed", "error", err)
		return Result{}, false
	}

	similarities := make([]float64, len(c.labels))
	for i, labelVector := range c.labelVectors {
		similarities[i] = cosineSimilarity32(queryVector, labelVector)
	}

	scores := softmax(similarities)

	meta := make(map[string]float64, len(c.labels))
	bestIndex := 0
	for i, label := range c.labels {
		meta[label] = scores[i]
		if scores[i] > scores[bestIndex] {
			bestIndex = i
		}
	}

	return Result{
		Intent:     c.labels[bestIndex],
		Confidence: scores[bestIndex],
		Meta:       meta,
	}, true
}

// softmax with a sharpening temperature; raw cosine similarities cluster
// tightly, so spread them before normalizing.
func softmax(values []float64) []float64 {
	const temperature = 10.0

	maxValue := math.Inf(-1)
	for _, v := range values {
		if v > maxValue {
			maxValue = v
		}
	}

	result := make([]float64, len(values))
	var sum float64
	for i, v := range values {
		result[i] = math.Exp((v - maxValue) * temperature)
		sum += result[i]
	}
	for i := range result {
		result[i] /= sum
	}
	return result
}

func cosineSimilarity32(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}
