package classifier

import (
	"fmt"
	"math"
)

type tree struct {
	left      []int
	right     []int
	feature   []int
	threshold []float64
	// positive-class probability per leaf; unused for internal nodes
	prob []float64
}

func newTree(s TreeSpec, nFeatures int) (*tree, error) {
	n := len(s.ChildrenLeft)
	if n == 0 {
		return nil, fmt.Errorf("%w: empty tree", ErrInvalidModel)
	}
	if len(s.ChildrenRight) != n || len(s.Feature) != n || len(s.Threshold) != n || len(s.Value) != n {
		return nil, fmt.Errorf("%w: tree arrays differ in length", ErrInvalidModel)
	}

	t := &tree{
		left:      append([]int(nil), s.ChildrenLeft...),
		right:     append([]int(nil), s.ChildrenRight...),
		feature:   append([]int(nil), s.Feature...),
		threshold: append([]float64(nil), s.Threshold...),
		prob:      make([]float64, n),
	}

	for i := 0; i < n; i++ {
		l, r := t.left[i], t.right[i]
		if l == -1 || r == -1 {
			if l != r {
				return nil, fmt.Errorf("%w: node %d has one child", ErrInvalidModel, i)
			}
			p, err := leafProbability(s.Value[i])
			if err != nil {
				return nil, fmt.Errorf("%w: node %d: %v", ErrInvalidModel, i, err)
			}
			t.prob[i] = p
			continue
		}
		// children after their parent keeps traversal finite
		if l <= i || r <= i || l >= n || r >= n {
			return nil, fmt.Errorf("%w: node %d has out-of-order children %d/%d", ErrInvalidModel, i, l, r)
		}
		if f := t.feature[i]; f < 0 || f >= nFeatures {
			return nil, fmt.Errorf("%w: node %d splits on feature %d of %d", ErrInvalidModel, i, f, nFeatures)
		}
		if math.IsNaN(t.threshold[i]) {
			return nil, fmt.Errorf("%w: node %d has NaN threshold", ErrInvalidModel, i)
		}
	}
	return t, nil
}

func leafProbability(v []float64) (float64, error) {
	if len(v) == 0 || len(v) > 2 {
		return 0, fmt.Errorf("leaf needs 1 or 2 class weights, got %d", len(v))
	}
	var sum float64
	for _, w := range v {
		if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			return 0, fmt.Errorf("bad class weight %v", w)
		}
		sum += w
	}
	if sum == 0 {
		return 0, fmt.Errorf("leaf has zero weight")
	}
	if len(v) == 1 {
		return 0, nil
	}
	return v[1] / sum, nil
}

func (t *tree) predict(x []float64) float64 {
	node := 0
	for t.left[node] != -1 {
		if x[t.feature[node]] <= t.threshold[node] {
			node = t.left[node]
		} else {
			node = t.right[node]
		}
	}
	return t.prob[node]
}

// forest averages positive-class leaf probabilities; a decision tree is a forest of one.
type forest struct {
	kind      string
	trees     []*tree
	nFeatures int
	threshold float64
}

func newForest(kind string, specs []TreeSpec, nFeatures int, threshold float64) (*forest, error) {
	f := &forest{kind: kind, nFeatures: nFeatures, threshold: threshold}
	for i, s := range specs {
		t, err := newTree(s, nFeatures)
		if err != nil {
			return nil, fmt.Errorf("tree %d: %w", i, err)
		}
		f.trees = append(f.trees, t)
	}
	return f, nil
}

func (f *forest) PredictProba(x []float64) (float64, error) {
	if err := checkRow(x, f.nFeatures); err != nil {
		return 0, err
	}
	var sum float64
	for _, t := range f.trees {
		sum += t.predict(x)
	}
	return clamp01(sum / float64(len(f.trees)))
}

func (f *forest) Threshold() float64 { return f.threshold }
func (f *forest) NumFeatures() int { return f.nFeatures }
func (f *forest) Type() string { return f.kind }
