// Package faq retrieves canned answers by similarity search over a fixed
// question/answer corpus.
package faq

import (
	"context"
	"log/slog"
)

// Entry is one question/answer pair in the corpus.
type Entry struct {
	Question string
	Answer   string
}

// Match is the result of a corpus search. Answer is nil when the corpus is
// empty or unavailable. Score is the best cosine similarity found, whatever
// its value; thresholds are the caller's business.
type Match struct {
	Answer *string
	Score  float64
}

// Matcher answers similarity queries over a corpus whose question vectors are
// precomputed at construction. Read-only after construction, safe for
// concurrent use.
type Matcher struct {
	entries    []Entry
	vectors    [][]float64
	vectorizer Vectorizer
}

// NewMatcher builds a matcher over the given corpus. Question vectors are
// computed once here. Entries whose vectorization fails are dropped with a
// warning; an empty or fully-dropped corpus leaves the matcher in a degraded
// but valid mode where Search always reports no match.
func NewMatcher(ctx context.Context, corpus []Entry, vectorizer Vectorizer) *Matcher {
	m := &Matcher{vectorizer: vectorizer}

	for _, entry := range corpus {
		vector, err := vectorizer.Vectorize(ctx, entry.Question)
		if err != nil {
			slog.Warn("faq: failed to vectorize corpus question, dropping entry",
				"question", entry.Question, "error", err)
			continue
		}
		m.entries = append(m.entries, entry)
		m.vectors = append(m.vectors, vector)
	}

	return m
}

// Size returns the number of usable corpus entries.
func (m *Matcher) Size() int {
	return len(m.entries)
}

// Search returns the best-matching answer and its similarity score.
// Ties on the maximum score resolve to the earliest corpus entry.
func (m *Matcher) Search(ctx context.Context, query string) Match {
	if len(m.entries) == 0 {
		return Match{Answer: nil, Score: 0.0}
	}

	queryVector, err := m.vectorizer.Vectorize(ctx, query)
	if err != nil {
		slog.Warn("faq: failed to vectorize query", "error", err)
		return Match{Answer: nil, Score: 0.0}
	}

	bestIndex := 0
	bestScore := CosineSimilarity(queryVector, m.vectors[0])
	for i := 1; i < len(m.vectors); i++ {
		if score := CosineSimilarity(queryVector, m.vectors[i]); score > bestScore {
			bestScore = score
			bestIndex = i
		}
	}

	answer := m.entries[bestIndex].Answer
	return Match{Answer: &answer, Score: bestScore}
}
