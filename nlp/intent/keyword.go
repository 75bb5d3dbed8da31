package intent

import (
	"context"
	"strings"
)

// keywordConfidence is the fixed confidence reported for any keyword match.
const keywordConfidence = 0.6

type keywordRule struct {
	intent     string
	substrings []string
}

// keywordRules maps intents to trigger substrings, checked in declaration
// order. First intent with a substring anywhere in the lowercased text wins.
var keywordRules = []keywordRule{
	{"track_order", []string{"track", "where is my order", "order status", "where is my package"}},
	{"refund_status", []string{"refund", "refunded", "refund status"}},
	{"greet", []string{"hi", "hello", "hey"}},
	{"goodbye", []string{"bye", "goodbye"}},
	{"escalate", []string{"human", "representative", "agent", "escalate"}},
}

// KeywordClassifier is the terminal cascade tier: a fixed substring table
// that is always available.
type KeywordClassifier struct{}

func NewKeywordClassifier() *KeywordClassifier {
	return &KeywordClassifier{}
}

func (c *KeywordClassifier) Name() string {
	return "keyword"
}

func (c *KeywordClassifier) Classify(_ context.Context, text string) (Result, bool) {
	low := strings.ToLower(text)

	for _, rule := range keywordRules {
		for _, substring := range rule.substrings {
			if strings.Contains(low, substring) {
				return Result{Intent: rule.intent, Confidence: keywordConfidence}, true
			}
		}
	}

	return Result{Intent: Unknown, Confidence: 0.0}, true
}
