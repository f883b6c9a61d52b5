package classifier

import (
	"fmt"
	"math"
)

type logistic struct {
	w         []float64
	b         float64
	threshold float64
}

func newLogistic(coef []float64, intercept float64, nFeatures int, threshold float64) (*logistic, error) {
	if len(coef) != nFeatures {
		return nil, fmt.Errorf("%w: %d coefficients for %d features", ErrInvalidModel, len(coef), nFeatures)
	}
	for i, w := range coef {
		if math.IsNaN(w) || math.IsInf(w, 0) {
			return nil, fmt.Errorf("%w: coefficient %d is not finite", ErrInvalidModel, i)
		}
	}
	if math.IsNaN(intercept) || math.IsInf(intercept, 0) {
		return nil, fmt.Errorf("%w: intercept is not finite", ErrInvalidModel)
	}
	return &logistic{w: append([]float64(nil), coef...), b: intercept, threshold: threshold}, nil
}

func (m *logistic) PredictProba(x []float64) (float64, error) {
	if err := checkRow(x, len(m.w)); err != nil {
		return 0, err
	}
	z := m.b
	for i, v := range x {
		z += m.w[i] * v
	}
	return clamp01(sigmoid(z))
}

func sigmoid(z float64) float64 {
	return 1.0 / (1.0 + math.Exp(-z))
}

func (m *logistic) Threshold() float64 { return m.threshold }
func (m *logistic) NumFeatures() int { return len(m.w) }
func (m *logistic) Type() string { return TypeLogisticRegression }
