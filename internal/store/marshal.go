package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/roach88/sieve/internal/dataset"
	"github.com/roach88/sieve/internal/session"
)

// marshalSnapshot converts a dataset to compact JSON TEXT, keeping record
// field order.
func marshalSnapshot(ds dataset.Dataset) (string, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, rec := range ds {
		if i > 0 {
			buf.WriteByte(',')
		}
		b, err := rec.MarshalJSON()
		if err != nil {
			return "", fmt.Errorf("marshal snapshot: record %d: %w", i, err)
		}
		buf.Write(b)
	}
	buf.WriteByte(']')
	return buf.String(), nil
}

func unmarshalSnapshot(data string) (dataset.Dataset, error) {
	ds, err := dataset.DecodeJSON(strings.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return ds, nil
}

// marshalAction converts an action to JSON TEXT.
func marshalAction(a session.Action) (string, error) {
	b, err := json.Marshal(a)
	if err != nil {
		return "", fmt.Errorf("marshal action %d: %w", a.Seq, err)
	}
	return string(b), nil
}

func unmarshalAction(data string) (session.Action, error) {
	var a session.Action
	if err := json.Unmarshal([]byte(data), &a); err != nil {
		return session.Action{}, fmt.Errorf("unmarshal action: %w", err)
	}
	return a, nil
}
