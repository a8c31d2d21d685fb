package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/roach88/sieve/internal/dataset"
)

// encodeJSON writes ds as an array of objects indented by four spaces.
// Record field order is kept.
func encodeJSON(w io.Writer, ds dataset.Dataset) error {
	var compact bytes.Buffer
	compact.WriteByte('[')
	for i, rec := range ds {
		if i > 0 {
			compact.WriteByte(',')
		}
		b, err := rec.MarshalJSON()
		if err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
		compact.Write(b)
	}
	compact.WriteByte(']')

	var out bytes.Buffer
	if err := json.Indent(&out, compact.Bytes(), "", "    "); err != nil {
		return err
	}
	out.WriteByte('\n')
	_, err := out.WriteTo(w)
	return err
}
