package features

import (
	"errors"
	"fmt"
	"sort"

	"golang.org/x/text/unicode/norm"
)

// FallbackCode is emitted for category values the encoder never saw during training.
const FallbackCode = 0

// Encoder maps a column's training classes to their ordinal codes.
type Encoder struct {
	classes []string
	index   map[string]int
}

// NewEncoder indexes classes by position. Classes are NFC-normalized, the same form
// Normalize gives submitted text, so two spellings of one class count as duplicates.
func NewEncoder(classes []string) (*Encoder, error) {
	if len(classes) == 0 {
		return nil, errors.New("encoder has no classes")
	}
	cp := make([]string, len(classes))
	idx := make(map[string]int, len(classes))
	for i, c := range classes {
		c = norm.NFC.String(c)
		if _, dup := idx[c]; dup {
			return nil, fmt.Errorf("duplicate class %q", c)
		}
		idx[c] = i
		cp[i] = c
	}
	return &Encoder{classes: cp, index: idx}, nil
}

func (e *Encoder) Classes() []string {
	return append([]string(nil), e.classes...)
}

func (e *Encoder) Code(key string) (int, bool) {
	code, ok := e.index[key]
	return code, ok
}

type EncoderTable map[string]*Encoder

type EncodeOutcome uint8

const (
	OutcomeMatched EncodeOutcome = iota
	OutcomeFallback
	OutcomePassthrough
)

func (o EncodeOutcome) String() string {
	switch o {
	case OutcomeMatched:
		return "matched"
	case OutcomeFallback:
		return "fallback"
	case OutcomePassthrough:
		return "passthrough"
	default:
		return "unknown"
	}
}

type ColumnEncoding struct {
	Column  string
	Outcome EncodeOutcome
	Code    int
}

// EncodeReport records what happened to every submitted column, sorted by column name.
type EncodeReport struct {
	Columns []ColumnEncoding
}

// Fallbacks lists the columns whose value was unseen and replaced by FallbackCode.
func (r EncodeReport) Fallbacks() []string {
	var out []string
	for _, c := range r.Columns {
		if c.Outcome == OutcomeFallback {
			out = append(out, c.Column)
		}
	}
	return out
}

// Encode replaces every value in a column that has an encoder with its ordinal code. Unseen
// values get FallbackCode; columns without an encoder pass through unchanged. The input record
// is not modified.
func Encode(rec Record, table EncoderTable) (Record, EncodeReport) {
	out := rec.clone()
	report := EncodeReport{Columns: make([]ColumnEncoding, 0, len(rec))}

	for col, v := range rec {
		enc, ok := table[col]
		if !ok || enc == nil {
			report.Columns = append(report.Columns, ColumnEncoding{Column: col, Outcome: OutcomePassthrough})
			continue
		}
		code, ok := enc.Code(v.Key())
		outcome := OutcomeMatched
		if !ok {
			code = FallbackCode
			outcome = OutcomeFallback
		}
		out[col] = Numeric(float64(code))
		report.Columns = append(report.Columns, ColumnEncoding{Column: col, Outcome: outcome, Code: code})
	}

	sort.Slice(report.Columns, func(i, j int) bool {
		return report.Columns[i].Column < report.Columns[j].Column
	})
	return out, report
}
