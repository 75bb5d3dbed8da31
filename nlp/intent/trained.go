package intent

import (
	"context"
	"encoding/json"
	"os"
	"sort"

	"github.com/pkg/errors"
)

// Model is the trained linear classifier artifact: a bag-of-words vocabulary
// plus one weight row and bias per class. The artifact is produced offline;
// this package only loads and applies it.
type Model struct {
	Vocabulary map[string]int `json:"vocabulary"`
	Classes    []string       `json:"classes"`
	Weights    [][]float64    `json:"weights"`
	Bias       []float64      `json:"bias"`
}

func (m *Model) validate() error {
	if len(m.Classes) == 0 {
		return errors.New("model has no classes")
	}
	if len(m.Weights) != len(m.Classes) {
		return errors.Errorf("model has %d weight rows for %d classes", len(m.Weights), len(m.Classes))
	}
	if len(m.Bias) != len(m.Classes) {
		return errors.Errorf("model has %d bias terms for %d classes", len(m.Bias), len(m.Classes))
	}
	for i, row := range m.Weights {
		if len(row) != len(m.Vocabulary) {
			return errors.Errorf("weight row %d has %d terms for vocabulary size %d", i, len(row), len(m.Vocabulary))
		}
	}
	return nil
}

// LoadModel reads and validates a model artifact from a JSON file.
func LoadModel(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read intent model %s", path)
	}

	model := &Model{}
	if err := json.Unmarshal(data, model); err != nil {
		return nil, errors.Wrapf(err, "failed to parse intent model %s", path)
	}
	if err := model.validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid intent model %s", path)
	}
	return model, nil
}

// SquashMargin maps a raw decision margin onto [0,1) with the fixed
// saturating transform 1 − 1/(1+|margin|). Larger margins approach but never
// reach 1.0, so trained-tier confidences stay commensurable with the policy
// thresholds.
func SquashMargin(margin float64) float64 {
	if margin < 0 {
		margin = -margin
	}
	return 1.0 - 1.0/(1.0+margin)
}

// TrainedClassifier is the cascade tier backed by a previously fit linear
// model.
type TrainedClassifier struct {
	model *Model
}

// NewTrainedClassifier wraps a loaded model. A nil model yields a permanently
// unavailable tier.
func NewTrainedClassifier(model *Model) *TrainedClassifier {
	return &TrainedClassifier{model: model}
}

func (c *TrainedClassifier) Name() string {
	return "trained"
}

// Classify scores the text against every class and predicts the argmax.
// Confidence derives from the margin between the top two class scores via
// SquashMargin.
func (c *TrainedClassifier) Classify(_ context.Context, text string) (Result, bool) {
	if c.model == nil {
		return Result{}, false
	}

	features := make(map[int]float64)
	for _, token := range tokenize(text) {
		if index, ok := c.model.Vocabulary[token]; ok {
			features[index]++
		}
	}

	scores := make([]float64, len(c.model.Classes))
	for i, row := range c.model.Weights {
		score := c.model.Bias[i]
		for index, count := range features {
			score += row[index] * count
		}
		scores[i] = score
	}

	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return scores[order[a]] > scores[order[b]] })

	top := order[0]
	margin := scores[top]
	if len(order) > 1 {
		margin = scores[top] - scores[order[1]]
	}

	return Result{
		Intent:     c.model.Classes[top],
		Confidence: SquashMargin(margin),
	}, true
}
