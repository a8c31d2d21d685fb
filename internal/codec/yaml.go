package codec

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/roach88/sieve/internal/dataset"
	"github.com/roach88/sieve/internal/value"
)

// decodeYAML reads a sequence of mappings. The node tree is walked directly
// so that mapping key order survives.
func decodeYAML(r io.Reader) (dataset.Dataset, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return dataset.Dataset{}, nil
		}
		return nil, err
	}

	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	if root.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("line %d: expected a sequence of records", root.Line)
	}

	ds := make(dataset.Dataset, 0, len(root.Content))
	for i, item := range root.Content {
		if item.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("record %d (line %d): expected a mapping", i, item.Line)
		}
		rec := dataset.NewRecord()
		for j := 0; j+1 < len(item.Content); j += 2 {
			key, val := item.Content[j], item.Content[j+1]
			var raw any
			if err := val.Decode(&raw); err != nil {
				return nil, fmt.Errorf("record %d field %q: %w", i, key.Value, err)
			}
			v, err := value.FromAny(raw)
			if err != nil {
				return nil, fmt.Errorf("record %d field %q: %w", i, key.Value, err)
			}
			rec.Set(key.Value, v)
		}
		ds = append(ds, rec)
	}
	return ds, nil
}

// encodeYAML writes ds as a block sequence of mappings. Number sequences use
// flow style.
func encodeYAML(w io.Writer, ds dataset.Dataset) error {
	root := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	for _, rec := range ds {
		m := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, key := range rec.Fields() {
			v, _ := rec.Get(key)
			m.Content = append(m.Content, scalarNode("!!str", key), yamlNode(v))
		}
		root.Content = append(root.Content, m)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		return err
	}
	return enc.Close()
}

func yamlNode(v value.Value) *yaml.Node {
	switch val := v.(type) {
	case value.String:
		return scalarNode("!!str", string(val))
	case value.Int:
		return scalarNode("!!int", strconv.FormatInt(int64(val), 10))
	case value.Float:
		return scalarNode("!!float", value.FormatFloat(float64(val)))
	case value.Bool:
		return scalarNode("!!bool", strconv.FormatBool(bool(val)))
	case value.Seq:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq", Style: yaml.FlowStyle}
		for _, elem := range val {
			n.Content = append(n.Content, yamlNode(elem))
		}
		return n
	default:
		return scalarNode("!!null", "null")
	}
}

func scalarNode(tag, text string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: text}
}
