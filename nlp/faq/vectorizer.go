package faq

import (
	"context"
	"math"
	"regexp"
	"strings"
)

// Vectorizer turns a text into a vector representation. Implementations must
// be deterministic for a given text so that FAQ matching stays stable.
type Vectorizer interface {
	Vectorize(ctx context.Context, text string) ([]float64, error)
}

var tokenRegexp = regexp.MustCompile(`[a-z0-9]+`)

func tokenize(text string) []string {
	return tokenRegexp.FindAllString(strings.ToLower(text), -1)
}

// TFIDFVectorizer is a term-frequency / inverse-document-frequency vectorizer
// fitted on a fixed document set at construction. It needs no external
// capability and is the default representation for the FAQ corpus.
type TFIDFVectorizer struct {
	vocabulary map[string]int
	idf        []float64
}

// NewTFIDFVectorizer fits a vectorizer on the given documents.
// idf uses the smoothed formula ln((1+n)/(1+df)) + 1 so terms that appear in
// every document still contribute.
func NewTFIDFVectorizer(documents []string) *TFIDFVectorizer {
	vocabulary := make(map[string]int)
	documentFrequency := make(map[string]int)

	for _, doc := range documents {
		seen := make(map[string]bool)
		for _, token := range tokenize(doc) {
			if _, ok := vocabulary[token]; !ok {
				vocabulary[token] = len(vocabulary)
			}
			if !seen[token] {
				seen[token] = true
				documentFrequency[token]++
			}
		}
	}

	idf := make([]float64, len(vocabulary))
	n := float64(len(documents))
	for token, index := range vocabulary {
		idf[index] = math.Log((1+n)/(1+float64(documentFrequency[token]))) + 1
	}

	return &TFIDFVectorizer{vocabulary: vocabulary, idf: idf}
}

// Vectorize returns the l2-normalized tf-idf vector of text over the fitted
// vocabulary. Out-of-vocabulary tokens are ignored. Never fails.
func (v *TFIDFVectorizer) Vectorize(_ context.Context, text string) ([]float64, error) {
	vector := make([]float64, len(v.vocabulary))
	for _, token := range tokenize(text) {
		if index, ok := v.vocabulary[token]; ok {
			vector[index] += v.idf[index]
		}
	}

	var norm float64
	for _, value := range vector {
		norm += value * value
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for i := range vector {
			vector[i] /= norm
		}
	}

	return vector, nil
}

// CosineSimilarity calculates the cosine similarity between two vectors.
// Mismatched lengths or zero vectors score 0.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}
