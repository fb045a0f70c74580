// Package migration moves projects, items and schemas between files and the
// document store. The file layout is the one the exporter writes:
//
//	projects.json
//	data/{project}/{section}.json
//	schema-db/{project}-{section}.json
package migration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ReadRecords loads a top-level array from a JSON or YAML file. The format is
// chosen by extension; anything other than .yaml/.yml is read as JSON.
func ReadRecords(path string) ([]any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return DecodeRecords(raw, isYAML(path))
}

// DecodeRecords decodes a top-level array. JSON numbers are kept as
// json.Number so the sanitizer can reject the ones the store cannot hold.
func DecodeRecords(raw []byte, asYAML bool) ([]any, error) {
	var records []any

	if asYAML {
		if err := yaml.Unmarshal(raw, &records); err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
		return records, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&records); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	return records, nil
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
