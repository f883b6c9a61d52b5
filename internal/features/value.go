package features

import (
	"strconv"
)

// Kind tags how a submitted field was interpreted.
type Kind uint8

const (
	KindNumeric Kind = iota
	KindCategorical
	KindBoolean
)

func (k Kind) String() string {
	switch k {
	case KindNumeric:
		return "numeric"
	case KindCategorical:
		return "categorical"
	case KindBoolean:
		return "boolean"
	default:
		return "unknown"
	}
}

// Value is a single normalized field. Numeric and Boolean values carry Num; Categorical
// values carry Text.
type Value struct {
	Kind Kind
	Num  float64
	Text string
}

func Numeric(f float64) Value { return Value{Kind: KindNumeric, Num: f} }

func Categorical(s string) Value { return Value{Kind: KindCategorical, Text: s} }

func Boolean(b bool) Value {
	if b {
		return Value{Kind: KindBoolean, Num: 1}
	}
	return Value{Kind: KindBoolean, Num: 0}
}

// Float reports the value as a model input. Categorical values have none.
func (v Value) Float() (float64, bool) {
	if v.Kind == KindCategorical {
		return 0, false
	}
	return v.Num, true
}

// Key is the canonical text used to look the value up in an encoder's class list.
func (v Value) Key() string {
	if v.Kind == KindCategorical {
		return v.Text
	}
	return strconv.FormatFloat(v.Num, 'f', -1, 64)
}

func (v Value) String() string {
	return v.Kind.String() + "(" + v.Key() + ")"
}

// RawSubmission is a decoded JSON object as posted by a client.
type RawSubmission map[string]any

// Record maps column names to normalized (and later encoded) values.
type Record map[string]Value

func (r Record) clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
