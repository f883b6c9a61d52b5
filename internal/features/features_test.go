package features

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustEncoder(t *testing.T, classes ...string) *Encoder {
	t.Helper()
	e, err := NewEncoder(classes)
	require.NoError(t, err)
	return e
}

func TestNormalizeYesNoAndNumbers(t *testing.T) {
	raw := RawSubmission{
		"hypertension":  "YES",
		"heart_disease": "no",
		"age":           "67",
		"bmi":           36.6,
		"gender":        "Male",
		"smokes":        true,
		"missing":       nil,
	}
	rec := Normalize(raw, []string{"hypertension", "heart_disease"})

	assert.Equal(t, Boolean(true), rec["hypertension"])
	assert.Equal(t, Boolean(false), rec["heart_disease"])
	assert.Equal(t, Numeric(67), rec["age"])
	assert.Equal(t, Numeric(36.6), rec["bmi"])
	assert.Equal(t, Categorical("Male"), rec["gender"])
	assert.Equal(t, Boolean(true), rec["smokes"])
	_, present := rec["missing"]
	assert.False(t, present)
}

func TestNormalizeYesOnlyOnBooleanColumns(t *testing.T) {
	rec := Normalize(RawSubmission{"ever_married": "Yes", "hypertension": "1"}, []string{"hypertension"})
	assert.Equal(t, Categorical("Yes"), rec["ever_married"])
	assert.Equal(t, Numeric(1), rec["hypertension"])
}

func TestNormalizeKeepsUnparsableText(t *testing.T) {
	rec := Normalize(RawSubmission{"age": " 5x ", "n": json.Number("12.5"), "inf": "Inf"}, nil)
	assert.Equal(t, Categorical(" 5x "), rec["age"])
	assert.Equal(t, Numeric(12.5), rec["n"])
	assert.Equal(t, KindCategorical, rec["inf"].Kind)
}

func TestEncodeUnseenCategoryFallsBackToZero(t *testing.T) {
	table := EncoderTable{
		"work_type": mustEncoder(t, "Govt_job", "Private", "Self-employed"),
		"gender":    mustEncoder(t, "Female", "Male"),
	}
	rec := Record{
		"work_type": Categorical("Astronaut"),
		"gender":    Categorical("Male"),
		"age":       Numeric(40),
	}

	out, report := Encode(rec, table)

	assert.Equal(t, Numeric(0), out["work_type"])
	assert.Equal(t, Numeric(1), out["gender"])
	assert.Equal(t, Numeric(40), out["age"])
	assert.Equal(t, []string{"work_type"}, report.Fallbacks())
	require.Len(t, report.Columns, 3)
	assert.Equal(t, ColumnEncoding{Column: "age", Outcome: OutcomePassthrough}, report.Columns[0])
	assert.Equal(t, Categorical("Astronaut"), rec["work_type"], "input record must not change")
}

func TestEncodeNumericValuesUseCanonicalText(t *testing.T) {
	table := EncoderTable{"level": mustEncoder(t, "1", "2", "3")}
	out, report := Encode(Record{"level": Numeric(3)}, table)
	assert.Equal(t, Numeric(2), out["level"])
	assert.Equal(t, OutcomeMatched, report.Columns[0].Outcome)
}

func TestNewEncoderRejectsBadClasses(t *testing.T) {
	_, err := NewEncoder(nil)
	assert.Error(t, err)
	_, err = NewEncoder([]string{"a", "a"})
	assert.Error(t, err)
	_, err = NewEncoder([]string{"Caf\u00e9", "Cafe\u0301"})
	assert.Error(t, err, "NFC-equal classes are duplicates")
}

func TestEncodeMatchesDecomposedClass(t *testing.T) {
	// class stored decomposed (e + combining acute), submission precomposed
	table := EncoderTable{"residence": mustEncoder(t, "Bogota", "Bogota\u0301")}
	rec := Normalize(RawSubmission{"residence": "Bogot\u00e1"}, nil)

	out, report := Encode(rec, table)
	assert.Equal(t, Numeric(1), out["residence"])
	assert.Equal(t, OutcomeMatched, report.Columns[0].Outcome)
}

func TestReindexLengthMatchesSchema(t *testing.T) {
	schema := []string{"gender", "age", "hypertension", "bmi"}
	cases := []Record{
		{},
		{"age": Numeric(50)},
		{"age": Numeric(50), "extra": Categorical("ignored"), "other": Numeric(9)},
		{"gender": Numeric(1), "age": Numeric(2), "hypertension": Boolean(true), "bmi": Numeric(4)},
	}
	for _, rec := range cases {
		out, err := Reindex(rec, schema)
		require.NoError(t, err)
		assert.Len(t, out, len(schema))
	}

	out, err := Reindex(Record{"bmi": Numeric(22.5), "hypertension": Boolean(true)}, schema)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0, 1, 22.5}, out)
}

func TestReindexRejectsCategoricalInSchema(t *testing.T) {
	_, err := Reindex(Record{"gender": Categorical("Male")}, []string{"gender"})
	assert.ErrorIs(t, err, ErrNonNumericFeature)
	assert.Contains(t, err.Error(), `"gender"`)
	assert.NotContains(t, err.Error(), "Male", "submitted values stay out of error text")
}
