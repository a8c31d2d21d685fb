package recipe

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat is returned for recipe files that are neither YAML nor CUE.
var ErrUnsupportedFormat = errors.New("recipe must be .yaml, .yml or .cue")

// Load reads and validates the recipe at path. The format follows the
// extension.
func Load(path string) (*Recipe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read recipe: %w", err)
	}

	var r *Recipe
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		r, err = ParseYAML(data)
	case ".cue":
		r, err = ParseCUE(data, path)
	default:
		return nil, fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return r, nil
}

// ParseYAML decodes a YAML recipe. Unknown keys are rejected.
func ParseYAML(data []byte) (*Recipe, error) {
	var r Recipe
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&r); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("invalid recipe: %w", err)
	}
	return &r, nil
}

// ParseCUE evaluates a CUE recipe. The value must be concrete and have the
// same shape as a YAML recipe; unknown fields are rejected. filename is used
// in error positions.
func ParseCUE(data []byte, filename string) (*Recipe, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, fmt.Errorf("building CUE value: %w", err)
	}
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, fmt.Errorf("recipe is not concrete: %w", err)
	}
	if !v.LookupPath(cue.ParsePath("steps")).Exists() {
		return nil, fmt.Errorf("invalid recipe: missing steps")
	}

	// Decode the exported JSON; numbers stay json.Number until typed.
	raw, err := v.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("exporting CUE value: %w", err)
	}
	var r Recipe
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	dec.DisallowUnknownFields()
	if err := dec.Decode(&r); err != nil {
		return nil, fmt.Errorf("decoding recipe: %w", err)
	}
	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("invalid recipe: %w", err)
	}
	return &r, nil
}

// WriteYAML writes r as YAML in the form ParseYAML reads.
func (r *Recipe) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("write recipe: %w", err)
	}
	return enc.Close()
}
