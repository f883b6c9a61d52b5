package artifact

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/yungbote/strokeguard-backend/internal/classifier"
	"github.com/yungbote/strokeguard-backend/internal/features"
)

var ErrInvalidBundle = errors.New("invalid artifact bundle")

type bundleFile struct {
	Columns  []string             `json:"columns"`
	Encoders map[string][]string  `json:"encoders"`
	Model    classifier.ModelSpec `json:"model"`
}

// Bundle is the trained model together with the encoders and column order it was fitted with.
// It is immutable once loaded.
type Bundle struct {
	schema   []string
	encoders features.EncoderTable
	classes  map[string][]string
	model    classifier.Classifier
}

func (b *Bundle) Schema() []string { return append([]string(nil), b.schema...) }
func (b *Bundle) Encoders() features.EncoderTable { return b.encoders }
func (b *Bundle) Model() classifier.Classifier { return b.model }

// EncoderClasses returns a copy of each encoded column's training classes, in code order.
func (b *Bundle) EncoderClasses() map[string][]string {
	out := make(map[string][]string, len(b.classes))
	for k, v := range b.classes {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// EncodedColumns lists columns that carry an encoder, sorted.
func (b *Bundle) EncodedColumns() []string {
	out := make([]string, 0, len(b.classes))
	for k := range b.classes {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func LoadFile(path string) (*Bundle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open artifact: %w", err)
	}
	defer f.Close()
	b, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return b, nil
}

func Decode(r io.Reader) (*Bundle, error) {
	var raw bundleFile
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrInvalidBundle, err)
	}
	return build(raw)
}

func build(raw bundleFile) (*Bundle, error) {
	if len(raw.Columns) == 0 {
		return nil, fmt.Errorf("%w: no columns", ErrInvalidBundle)
	}
	seen := make(map[string]struct{}, len(raw.Columns))
	for i, c := range raw.Columns {
		if strings.TrimSpace(c) == "" {
			return nil, fmt.Errorf("%w: column %d is blank", ErrInvalidBundle, i)
		}
		if _, dup := seen[c]; dup {
			return nil, fmt.Errorf("%w: duplicate column %q", ErrInvalidBundle, c)
		}
		seen[c] = struct{}{}
	}

	table := make(features.EncoderTable, len(raw.Encoders))
	classes := make(map[string][]string, len(raw.Encoders))
	for col, cls := range raw.Encoders {
		if _, ok := seen[col]; !ok {
			return nil, fmt.Errorf("%w: encoder for unknown column %q", ErrInvalidBundle, col)
		}
		enc, err := features.NewEncoder(cls)
		if err != nil {
			return nil, fmt.Errorf("%w: encoder %q: %v", ErrInvalidBundle, col, err)
		}
		table[col] = enc
		classes[col] = enc.Classes()
	}

	model, err := classifier.Build(raw.Model, len(raw.Columns))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBundle, err)
	}

	return &Bundle{
		schema:   append([]string(nil), raw.Columns...),
		encoders: table,
		classes:  classes,
		model:    model,
	}, nil
}
