package features

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

var fold = cases.Fold()

// Normalize turns a raw submission into typed values. Fields named in booleanColumns accept
// "yes"/"no" in any case; every field is then coerced to a number when it parses as one and
// kept as categorical text otherwise. JSON nulls are dropped. Normalize never fails.
func Normalize(raw RawSubmission, booleanColumns []string) Record {
	bools := make(map[string]struct{}, len(booleanColumns))
	for _, c := range booleanColumns {
		bools[c] = struct{}{}
	}

	rec := make(Record, len(raw))
	for col, v := range raw {
		if v == nil {
			continue
		}
		if _, ok := bools[col]; ok {
			if b, ok := yesNo(v); ok {
				rec[col] = Boolean(b)
				continue
			}
		}
		rec[col] = coerce(v)
	}
	return rec
}

func yesNo(v any) (bool, bool) {
	s, ok := v.(string)
	if !ok {
		return false, false
	}
	switch fold.String(strings.TrimSpace(s)) {
	case "yes":
		return true, true
	case "no":
		return false, true
	}
	return false, false
}

func coerce(v any) Value {
	switch t := v.(type) {
	case bool:
		return Boolean(t)
	case float64:
		if finite(t) {
			return Numeric(t)
		}
		return Categorical(strconv.FormatFloat(t, 'g', -1, 64))
	case float32:
		return coerce(float64(t))
	case int:
		return Numeric(float64(t))
	case int64:
		return Numeric(float64(t))
	case json.Number:
		return coerceString(t.String())
	case string:
		return coerceString(t)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return Categorical(norm.NFC.String(fmt.Sprint(t)))
		}
		return Categorical(norm.NFC.String(string(b)))
	}
}

func coerceString(s string) Value {
	if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil && finite(f) {
		return Numeric(f)
	}
	return Categorical(norm.NFC.String(s))
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
