package codec

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/roach88/sieve/internal/dataset"
	"github.com/roach88/sieve/internal/value"
)

// decodeCSV reads a header row followed by one record per row. Cells are
// Int, then Float, else String; an empty cell is null.
func decodeCSV(r io.Reader) (dataset.Dataset, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return dataset.Dataset{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	ds := dataset.Dataset{}
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		rec := dataset.NewRecord()
		for i, key := range header {
			rec.Set(key, value.ParseScalar(row[i]))
		}
		ds = append(ds, rec)
	}
	return ds, nil
}

// encodeCSV writes the union of all fields as the header. Records lacking a
// field get an empty cell.
func encodeCSV(w io.Writer, ds dataset.Dataset) error {
	fields := ds.FieldUnion()
	cw := csv.NewWriter(w)
	if len(fields) > 0 {
		if err := cw.Write(fields); err != nil {
			return err
		}
	}

	row := make([]string, len(fields))
	for _, rec := range ds {
		for i, key := range fields {
			v, _ := rec.Get(key)
			row[i] = value.Text(v)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
