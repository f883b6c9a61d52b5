package classifier

// DefaultThreshold is the decision threshold when a model spec does not carry one.
const DefaultThreshold = 0.5

const (
	TypeRandomForest       = "random_forest"
	TypeDecisionTree       = "decision_tree"
	TypeLogisticRegression = "logistic_regression"
)

// TreeSpec is a fitted CART tree in flat array form. Node 0 is the root; a node with
// ChildrenLeft == -1 is a leaf. Value holds per-class weights, class 1 being positive.
type TreeSpec struct {
	ChildrenLeft  []int       `json:"children_left"`
	ChildrenRight []int       `json:"children_right"`
	Feature       []int       `json:"feature"`
	Threshold     []float64   `json:"threshold"`
	Value         [][]float64 `json:"value"`
}

// ModelSpec is the serialized model section of an artifact bundle.
type ModelSpec struct {
	Type      string   `json:"type"`
	Threshold *float64 `json:"threshold,omitempty"`

	Trees []TreeSpec `json:"trees,omitempty"`

	Coefficients []float64 `json:"coefficients,omitempty"`
	Intercept    float64   `json:"intercept,omitempty"`
}
