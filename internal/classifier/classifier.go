package classifier

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var ErrInvalidModel = errors.New("invalid model")

// Classifier scores one feature row laid out in training-schema order.
type Classifier interface {
	// PredictProba returns the positive-class probability, always within [0,1].
	PredictProba(x []float64) (float64, error)
	Threshold() float64
	NumFeatures() int
	Type() string
}

// Build validates spec against the feature count and returns a ready classifier.
func Build(spec ModelSpec, nFeatures int) (Classifier, error) {
	if nFeatures <= 0 {
		return nil, fmt.Errorf("%w: no feature columns", ErrInvalidModel)
	}
	threshold := DefaultThreshold
	if spec.Threshold != nil {
		threshold = *spec.Threshold
		if math.IsNaN(threshold) || threshold < 0 || threshold > 1 {
			return nil, fmt.Errorf("%w: threshold %v outside [0,1]", ErrInvalidModel, threshold)
		}
	}

	switch strings.ToLower(strings.TrimSpace(spec.Type)) {
	case TypeRandomForest:
		if len(spec.Trees) == 0 {
			return nil, fmt.Errorf("%w: random_forest needs at least one tree", ErrInvalidModel)
		}
		return newForest(TypeRandomForest, spec.Trees, nFeatures, threshold)
	case TypeDecisionTree:
		if len(spec.Trees) != 1 {
			return nil, fmt.Errorf("%w: decision_tree needs exactly one tree, got %d", ErrInvalidModel, len(spec.Trees))
		}
		return newForest(TypeDecisionTree, spec.Trees, nFeatures, threshold)
	case TypeLogisticRegression:
		return newLogistic(spec.Coefficients, spec.Intercept, nFeatures, threshold)
	default:
		return nil, fmt.Errorf("%w: unsupported model type %q", ErrInvalidModel, spec.Type)
	}
}

// Label applies the decision rule: positive iff p >= threshold.
func Label(c Classifier, p float64) int {
	if p >= c.Threshold() {
		return 1
	}
	return 0
}

func checkRow(x []float64, n int) error {
	if len(x) != n {
		return fmt.Errorf("feature row has %d values, model expects %d", len(x), n)
	}
	return nil
}

func clamp01(p float64) (float64, error) {
	if math.IsNaN(p) {
		return 0, errors.New("model produced NaN probability")
	}
	if p < 0 {
		return 0, nil
	}
	if p > 1 {
		return 1, nil
	}
	return p, nil
}
