package domain

import (
	"encoding/json"
	"errors"
)

var ErrNotFound = errors.New("item not found")

// IDField is the reserved key carrying an item's id in API payloads.
const IDField = "id"

// Item is an arbitrary record in a section. Fields never contain IDField.
type Item struct {
	ID     string
	Fields map[string]any
}

// MarshalJSON flattens the item to {"id": ..., ...fields}.
func (i Item) MarshalJSON() ([]byte, error) {
	flat := make(map[string]any, len(i.Fields)+1)
	for k, v := range i.Fields {
		flat[k] = v
	}
	flat[IDField] = i.ID
	return json.Marshal(flat)
}

// Merge returns a copy of fields with patch applied over it; patch wins per key.
func Merge(fields, patch map[string]any) map[string]any {
	out := make(map[string]any, len(fields)+len(patch))
	for k, v := range fields {
		out[k] = v
	}
	for k, v := range patch {
		out[k] = v
	}
	delete(out, IDField)
	return out
}

// WithoutID returns a copy of record minus the id key.
func WithoutID(record map[string]any) map[string]any {
	out := make(map[string]any, len(record))
	for k, v := range record {
		if k != IDField {
			out[k] = v
		}
	}
	return out
}
