// Package codec loads and saves datasets as CSV, JSON, YAML or XML files.
//
// Every loader normalises the values it reads (boolean and bracketed list
// text becomes Bool and Seq), so the evaluators see one representation
// whatever the source format.
package codec

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/roach88/sieve/internal/dataset"
)

// Format names a file format.
type Format string

const (
	CSV  Format = "csv"
	JSON Format = "json"
	YAML Format = "yaml"
	XML  Format = "xml"
)

// ErrUnsupportedFormat is returned for paths and names with no known format.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// Error describes a failed load or save.
type Error struct {
	Op     string // "load" or "save"
	Path   string
	Format Format
	Err    error
}

func (e *Error) Error() string {
	if e.Format == "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("%s %s (%s): %v", e.Op, e.Path, e.Format, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return CSV, nil
	case ".json":
		return JSON, nil
	case ".yaml", ".yml":
		return YAML, nil
	case ".xml":
		return XML, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
}

// Load reads the dataset stored at path.
func Load(path string) (dataset.Dataset, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, &Error{Op: "load", Path: path, Err: err}
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, &Error{Op: "load", Path: path, Format: format, Err: err}
	}
	defer f.Close()

	ds, err := Decode(f, format)
	if err != nil {
		return nil, &Error{Op: "load", Path: path, Format: format, Err: err}
	}
	return ds, nil
}

// Decode reads a dataset in the given format and normalises its values.
func Decode(r io.Reader, format Format) (dataset.Dataset, error) {
	var (
		ds  dataset.Dataset
		err error
	)
	switch format {
	case CSV:
		ds, err = decodeCSV(r)
	case JSON:
		ds, err = dataset.DecodeJSON(r)
	case YAML:
		ds, err = decodeYAML(r)
	case XML:
		ds, err = decodeXML(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, err
	}
	return dataset.Normalize(ds), nil
}

// Save writes ds to path in the format named by its extension.
// An existing file is replaced.
func Save(ds dataset.Dataset, path string) (err error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return &Error{Op: "save", Path: path, Err: err}
	}
	f, err := os.Create(path)
	if err != nil {
		return &Error{Op: "save", Path: path, Format: format, Err: err}
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = &Error{Op: "save", Path: path, Format: format, Err: cerr}
		}
	}()

	if err := Encode(f, ds, format); err != nil {
		return &Error{Op: "save", Path: path, Format: format, Err: err}
	}
	return nil
}

// Encode writes ds to w in the given format.
func Encode(w io.Writer, ds dataset.Dataset, format Format) error {
	switch format {
	case CSV:
		return encodeCSV(w, ds)
	case JSON:
		return encodeJSON(w, ds)
	case YAML:
		return encodeYAML(w, ds)
	case XML:
		return encodeXML(w, ds)
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}
