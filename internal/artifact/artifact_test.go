package artifact

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/strokeguard-backend/internal/classifier"
)

func TestLoadFileBuildsBundle(t *testing.T) {
	b, err := LoadFile(filepath.Join("testdata", "stroke_model.json"))
	require.NoError(t, err)

	assert.Len(t, b.Schema(), 10)
	assert.Equal(t, "gender", b.Schema()[0])
	assert.Equal(t, classifier.TypeRandomForest, b.Model().Type())
	assert.Equal(t, 10, b.Model().NumFeatures())
	assert.Equal(t, []string{"Residence_type", "ever_married", "gender", "smoking_status", "work_type"}, b.EncodedColumns())

	code, ok := b.Encoders()["work_type"].Code("Private")
	require.True(t, ok)
	assert.Equal(t, 1, code)

	classes := b.EncoderClasses()
	classes["gender"][0] = "mutated"
	assert.Equal(t, "Female", b.EncoderClasses()["gender"][0])
}

func TestDecodeRejectsInconsistentBundles(t *testing.T) {
	cases := map[string]string{
		"not json":         `{`,
		"no columns":       `{"columns":[],"model":{"type":"logistic_regression"}}`,
		"duplicate column": `{"columns":["a","a"],"model":{"type":"logistic_regression","coefficients":[1,1]}}`,
		"encoder mismatch": `{"columns":["a"],"encoders":{"b":["x"]},"model":{"type":"logistic_regression","coefficients":[1]}}`,
		"empty encoder":    `{"columns":["a"],"encoders":{"a":[]},"model":{"type":"logistic_regression","coefficients":[1]}}`,
		"model shape":      `{"columns":["a","b"],"model":{"type":"logistic_regression","coefficients":[1]}}`,
		"unknown field":    `{"columns":["a"],"model":{"type":"logistic_regression","coefficients":[1]},"pickle":"x"}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(body))
			assert.ErrorIs(t, err, ErrInvalidBundle)
		})
	}
}

func TestOpenMissingFileIsDegraded(t *testing.T) {
	s := Open(filepath.Join(t.TempDir(), "nope.json"))
	assert.Equal(t, StateDegraded, s.State())
	assert.Error(t, s.Err())
	_, ok := s.Bundle()
	assert.False(t, ok)

	loaded := Open(filepath.Join("testdata", "stroke_model.json"))
	assert.Equal(t, StateLoaded, loaded.State())
	assert.NoError(t, loaded.Err())
	assert.Equal(t, "ready", loaded.State().String())
}
