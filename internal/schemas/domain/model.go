package domain

import (
	"fmt"
	"strings"
)

type FieldType string

const (
	FieldInput    FieldType = "input"
	FieldTextarea FieldType = "textarea"
)

func (t FieldType) Valid() bool {
	return t == FieldInput || t == FieldTextarea
}

// Field describes one column an admin form renders for a section.
type Field struct {
	Key  string    `json:"key"`
	Type FieldType `json:"type"`
}

// Schema is advisory metadata for a section's items.
type Schema struct {
	Fields []Field `json:"fields"`
}

// Empty is what readers get for a section that has no schema yet.
func Empty() Schema {
	return Schema{Fields: []Field{}}
}

// Normalize trims keys and defaults missing types to input. It returns the
// cleaned fields together with the positions that are still invalid: blank
// keys, repeated keys and unknown types.
func Normalize(fields []Field) ([]Field, []string) {
	out := make([]Field, 0, len(fields))
	seen := make(map[string]bool, len(fields))
	var bad []string

	for i, f := range fields {
		f.Key = strings.TrimSpace(f.Key)
		if f.Type == "" {
			f.Type = FieldInput
		}

		switch {
		case f.Key == "":
			bad = append(bad, fmt.Sprintf("fields[%d].key", i))
		case seen[f.Key]:
			bad = append(bad, fmt.Sprintf("fields[%d].key", i))
		case !f.Type.Valid():
			bad = append(bad, fmt.Sprintf("fields[%d].type", i))
		}
		seen[f.Key] = true
		out = append(out, f)
	}
	return out, bad
}

// Keys returns the set of field keys.
func (s Schema) Keys() map[string]bool {
	keys := make(map[string]bool, len(s.Fields))
	for _, f := range s.Fields {
		keys[f.Key] = true
	}
	return keys
}

// Record is the stored document shape.
func (s Schema) Record() map[string]any {
	fields := make([]any, 0, len(s.Fields))
	for _, f := range s.Fields {
		fields = append(fields, map[string]any{"key": f.Key, "type": string(f.Type)})
	}
	return map[string]any{"fields": fields}
}

// FromRecord reads a stored schema, skipping entries that are not field objects.
func FromRecord(data map[string]any) Schema {
	s := Empty()
	list, _ := data["fields"].([]any)
	for _, entry := range list {
		m, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		key, _ := m["key"].(string)
		typ, _ := m["type"].(string)
		s.Fields = append(s.Fields, Field{Key: key, Type: FieldType(typ)})
	}
	return s
}
