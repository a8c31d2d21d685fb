package codec

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/roach88/sieve/internal/dataset"
	"github.com/roach88/sieve/internal/value"
)

const (
	xmlRoot = "root"
	xmlItem = "item"
)

type xmlDocument struct {
	XMLName xml.Name
	Items   []xmlRecord `xml:",any"`
}

type xmlRecord struct {
	XMLName xml.Name
	Fields  []xmlField `xml:",any"`
}

type xmlField struct {
	XMLName xml.Name
	Text    string `xml:",chardata"`
}

// decodeXML reads <root><item><field>text</field>...</item>...</root>. The
// element names of the root and items are not checked. Field text is typed:
// text with a comma is a list of integers, an optionally signed run of digits
// is an Int, empty text is null, anything else is a String.
func decodeXML(r io.Reader) (dataset.Dataset, error) {
	var doc xmlDocument
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		if err == io.EOF {
			return dataset.Dataset{}, nil
		}
		return nil, err
	}

	ds := make(dataset.Dataset, 0, len(doc.Items))
	for i, item := range doc.Items {
		rec := dataset.NewRecord()
		for _, f := range item.Fields {
			v, err := xmlValue(f.Text)
			if err != nil {
				return nil, fmt.Errorf("record %d field %q: %w", i, f.XMLName.Local, err)
			}
			rec.Set(f.XMLName.Local, v)
		}
		ds = append(ds, rec)
	}
	return ds, nil
}

func xmlValue(text string) (value.Value, error) {
	switch {
	case text == "":
		return value.Null{}, nil
	case strings.Contains(text, ","):
		parts := strings.Split(text, ",")
		seq := make(value.Seq, len(parts))
		for i, p := range parts {
			n, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
			if err != nil {
				return nil, fmt.Errorf("list element %d: %q is not an integer", i, p)
			}
			seq[i] = value.Int(n)
		}
		return seq, nil
	case isInteger(text):
		n, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return nil, err
		}
		return value.Int(n), nil
	}
	return value.String(text), nil
}

func isInteger(s string) bool {
	s = strings.TrimPrefix(s, "-")
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// encodeXML writes an XML declaration and one <item> per record, with
// sequences rendered as comma-joined text.
func encodeXML(w io.Writer, ds dataset.Dataset) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}

	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	root := xml.StartElement{Name: xml.Name{Local: xmlRoot}}
	if err := enc.EncodeToken(root); err != nil {
		return err
	}
	for _, rec := range ds {
		item := xml.StartElement{Name: xml.Name{Local: xmlItem}}
		if err := enc.EncodeToken(item); err != nil {
			return err
		}
		for _, key := range rec.Fields() {
			v, _ := rec.Get(key)
			text := value.Text(v)
			if seq, ok := v.(value.Seq); ok {
				text = value.JoinSeq(seq, ",")
			}
			if err := enc.EncodeElement(text, xml.StartElement{Name: xml.Name{Local: key}}); err != nil {
				return fmt.Errorf("field %q: %w", key, err)
			}
		}
		if err := enc.EncodeToken(item.End()); err != nil {
			return err
		}
	}
	if err := enc.EncodeToken(root.End()); err != nil {
		return err
	}
	if err := enc.Flush(); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}
