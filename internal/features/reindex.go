package features

import (
	"errors"
	"fmt"
)

var ErrNonNumericFeature = errors.New("non-numeric feature value")

// Reindex lays a record out in schema order. Columns missing from the record become 0 and
// columns outside the schema are ignored. The result always has len(schema) entries.
func Reindex(rec Record, schema []string) ([]float64, error) {
	out := make([]float64, len(schema))
	for i, col := range schema {
		v, ok := rec[col]
		if !ok {
			continue
		}
		f, ok := v.Float()
		if !ok {
			return nil, fmt.Errorf("%w: column %q", ErrNonNumericFeature, col)
		}
		out[i] = f
	}
	return out, nil
}
