package output

import (
	"encoding/json"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// JSONFormatter writes replies as indented JSON. A nil reply is null.
type JSONFormatter struct{}

// Format implements Formatter.
func (f *JSONFormatter) Format(w io.Writer, data any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(structured(data))
}

// YAMLFormatter writes replies as YAML documents.
type YAMLFormatter struct{}

// Format implements Formatter.
func (f *YAMLFormatter) Format(w io.Writer, data any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(structured(data)); err != nil {
		return err
	}
	return enc.Close()
}

// structured turns a Table into one object per row keyed by lower-cased
// header, so machine formats do not leak the Headers/Rows layout.
func structured(data any) any {
	var t *Table
	switch v := data.(type) {
	case *Table:
		t = v
	case Table:
		t = &v
	default:
		return data
	}
	if t == nil {
		return nil
	}

	rows := make([]map[string]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		obj := make(map[string]string, len(row))
		for i, cell := range row {
			if i < len(t.Headers) {
				obj[strings.ToLower(t.Headers[i])] = cell
			}
		}
		rows = append(rows, obj)
	}
	return rows
}
