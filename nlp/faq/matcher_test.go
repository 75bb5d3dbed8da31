package faq

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchEmptyCorpus(t *testing.T) {
	ctx := context.Background()
	matcher := NewMatcher(ctx, nil, NewTFIDFVectorizer(nil))

	for _, query := range []string{"", "refund", "where is my order"} {
		match := matcher.Search(ctx, query)
		assert.Nil(t, match.Answer)
		assert.Zero(t, match.Score)
	}
}

func TestSearchBestMatch(t *testing.T) {
	ctx := context.Background()
	corpus := []Entry{
		{Question: "What is your return policy?", Answer: "Returns allowed within 30 days."},
		{Question: "How long does shipping take?", Answer: "Shipping takes 3-7 business days."},
		{Question: "When will I get my refund?", Answer: "Refunds take 2-3 business days."},
	}
	matcher := NewMatcher(ctx, corpus, NewTFIDFVectorizer(questions(corpus)))
	require.Equal(t, 3, matcher.Size())

	match := matcher.Search(ctx, "what is the return policy")
	require.NotNil(t, match.Answer)
	assert.Equal(t, "Returns allowed within 30 days.", *match.Answer)
	assert.Greater(t, match.Score, 0.5)

	match = matcher.Search(ctx, "refund when")
	require.NotNil(t, match.Answer)
	assert.Equal(t, "Refunds take 2-3 business days.", *match.Answer)
}

func TestSearchTieBreaksToFirstEntry(t *testing.T) {
	ctx := context.Background()
	corpus := []Entry{
		{Question: "alpha beta", Answer: "first"},
		{Question: "alpha beta", Answer: "second"},
	}
	matcher := NewMatcher(ctx, corpus, NewTFIDFVectorizer(questions(corpus)))

	match := matcher.Search(ctx, "alpha beta")
	require.NotNil(t, match.Answer)
	assert.Equal(t, "first", *match.Answer)
}

func TestSearchUnrelatedQueryScoresLow(t *testing.T) {
	ctx := context.Background()
	corpus := DefaultCorpus()
	matcher := NewMatcher(ctx, corpus, NewTFIDFVectorizer(questions(corpus)))

	match := matcher.Search(ctx, "zzz qqq xxx")
	require.NotNil(t, match.Answer)
	assert.Zero(t, match.Score)
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, CosineSimilarity([]float64{1, 0}, []float64{2, 0}), 1e-9)
	assert.InDelta(t, 0.0, CosineSimilarity([]float64{1, 0}, []float64{0, 1}), 1e-9)
	assert.Zero(t, CosineSimilarity([]float64{1, 0}, []float64{1, 0, 0}), "mismatched lengths")
	assert.Zero(t, CosineSimilarity([]float64{0, 0}, []float64{1, 0}), "zero vector")
}

func TestLoadCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "faq.csv")
	content := "question,answer\nWhat is your return policy?,Returns allowed within 30 days.\nbroken-row\nHow long does shipping take?,3-7 business days.\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	corpus, err := LoadCSV(path)
	require.NoError(t, err)
	require.Len(t, corpus, 2)
	assert.Equal(t, "What is your return policy?", corpus[0].Question)
	assert.Equal(t, "3-7 business days.", corpus[1].Answer)

	_, err = LoadCSV(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}

func questions(corpus []Entry) []string {
	qs := make([]string, len(corpus))
	for i, entry := range corpus {
		qs[i] = entry.Question
	}
	return qs
}
