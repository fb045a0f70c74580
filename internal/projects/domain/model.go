package domain

import (
	"encoding/json"
	"errors"
	"sort"
	"strings"
)

var (
	ErrNotFound      = errors.New("project not found")
	ErrAlreadyExists = errors.New("project already exists")
)

// Project is a top-level container. Key is the document id and never changes
// after creation; Sections is a denormalised list of section names.
type Project struct {
	Key      string   `json:"key"`
	Name     string   `json:"name"`
	Sections []string `json:"sections"`
}

// CreateInput is the payload accepted by Create. Key falls back to Name when empty.
type CreateInput struct {
	Key      string   `json:"key"`
	Name     string   `json:"name"`
	Sections []string `json:"sections"`
}

// Patch holds the fields an update may replace. A nil Sections leaves the
// list untouched; an empty one clears it. A key in the payload is ignored
// since keys never change; any other field lands in Unknown.
type Patch struct {
	Name     *string  `json:"name"`
	Sections []string `json:"sections"`
	Unknown  []string `json:"-"`
}

// UnmarshalJSON decodes the known fields and records the names of the rest.
func (p *Patch) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	type plain Patch
	var v plain
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*p = Patch(v)

	for k := range raw {
		switch k {
		case "key", "name", "sections":
		default:
			p.Unknown = append(p.Unknown, k)
		}
	}
	sort.Strings(p.Unknown)
	return nil
}

// reservedKeys name static routes under /api. A project with one of these
// keys could not reach its items through /api/{project}/{section}.
var reservedKeys = map[string]bool{
	"projects": true,
	"schemas":  true,
	"auth":     true,
}

// IsReserved reports whether key is taken by a static API route.
func IsReserved(key string) bool {
	return reservedKeys[key]
}

// Slugify lower-cases s and strips every character outside [a-z0-9_].
func Slugify(s string) string {
	s = strings.ToLower(s)
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// SlugifySections slugifies every section name, dropping the ones that end up empty.
func SlugifySections(sections []string) []string {
	out := make([]string, 0, len(sections))
	for _, s := range sections {
		if slug := Slugify(s); slug != "" {
			out = append(out, slug)
		}
	}
	return out
}

// Record is the stored document shape.
func (p Project) Record() map[string]any {
	sections := make([]any, 0, len(p.Sections))
	for _, s := range p.Sections {
		sections = append(sections, s)
	}
	return map[string]any{
		"key":      p.Key,
		"name":     p.Name,
		"sections": sections,
	}
}

// FromRecord rebuilds a Project from a stored document. Documents imported by
// hand may lack a key field, so the document id is used instead.
func FromRecord(id string, data map[string]any) Project {
	p := Project{Key: id, Sections: []string{}}
	if k, ok := data["key"].(string); ok && k != "" {
		p.Key = k
	}
	if n, ok := data["name"].(string); ok {
		p.Name = n
	}
	switch v := data["sections"].(type) {
	case []any:
		for _, s := range v {
			if str, ok := s.(string); ok {
				p.Sections = append(p.Sections, str)
			}
		}
	case []string:
		p.Sections = append(p.Sections, v...)
	}
	return p
}

// HasSection reports whether name is one of the project's sections.
func (p Project) HasSection(name string) bool {
	for _, s := range p.Sections {
		if s == name {
			return true
		}
	}
	return false
}
