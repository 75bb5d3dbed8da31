// Package intent classifies chat utterances into support intents with a
// cascade of classifier tiers. Tiers are tried in priority order and the
// first available tier's result is returned unmodified; the terminal keyword
// tier guarantees the cascade never fails outright.
package intent

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
)

// Unknown is returned when no tier can name an intent.
const Unknown = "unknown"

// Recognized lists the intents the cascade can produce, besides Unknown.
var Recognized = []string{
	"greet",
	"goodbye",
	"thanks",
	"track_order",
	"cancel_order",
	"refund_status",
	"return_policy",
	"shipping_info",
	"payment_issue",
	"product_info",
	"exchange_request",
	"complaint",
	"escalate",
}

// Result is the outcome of a classification. Confidence is always in [0,1];
// each tier normalizes its own notion of certainty before returning, so
// values are commensurable with the policy thresholds regardless of which
// tier produced them.
type Result struct {
	Intent     string
	Confidence float64
	Meta       map[string]float64
}

// Classifier is one cascade tier. The second return value reports whether
// the tier could produce a result; false means unavailable, and the cascade
// falls through to the next tier.
type Classifier interface {
	Name() string
	Classify(ctx context.Context, text string) (Result, bool)
}

// Cascade tries its tiers in order and returns the first successful result.
type Cascade struct {
	tiers []Classifier
}

// NewCascade creates a cascade over the given tiers, tried in argument order.
// The last tier should always succeed; if every tier declines, the cascade
// returns an unknown result with zero confidence.
func NewCascade(tiers ...Classifier) *Cascade {
	return &Cascade{tiers: tiers}
}

// Classify runs the cascade. It also reports the name of the tier that
// produced the result, for observability.
func (c *Cascade) Classify(ctx context.Context, text string) (Result, string) {
	text = strings.TrimSpace(text)

	for _, tier := range c.tiers {
		if result, ok := tier.Classify(ctx, text); ok {
			return result, tier.Name()
		}
		slog.Debug("intent: tier unavailable, falling through", "tier", tier.Name())
	}

	return Result{Intent: Unknown, Confidence: 0.0}, "none"
}

var tokenRegexp = regexp.MustCompile(`[a-z0-9]+`)

func tokenize(text string) []string {
	return tokenRegexp.FindAllString(strings.ToLower(text), -1)
}
