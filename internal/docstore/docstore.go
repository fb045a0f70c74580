// Package docstore is a small document-database abstraction shaped after
// Firestore: documents live in collections addressed by slash-separated paths
// ("projects/mayapan/sections/home/items/<id>") and hold a map of fields.
//
// Writes are whole-document. Backends give no cross-document atomicity and no
// concurrency control: the last Set on a path wins.
package docstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/adminpanel-sm/adminpanel-backend/internal/sanitize"
)

var (
	ErrNotFound      = errors.New("document not found")
	ErrAlreadyExists = errors.New("document already exists")
	ErrInvalidPath   = errors.New("invalid document path")
)

// Document is a stored record and the id it is stored under.
type Document struct {
	ID   string
	Data map[string]any
}

// Store is implemented by every backend.
type Store interface {
	// Get returns ErrNotFound when no document exists at docPath.
	Get(ctx context.Context, docPath string) (Document, error)
	// List returns every document of a collection ordered by id.
	List(ctx context.Context, collection string) ([]Document, error)
	// Create writes a new document and returns ErrAlreadyExists if one is present.
	Create(ctx context.Context, docPath string, data map[string]any) error
	// Add writes a new document under a backend-assigned id and returns that id.
	Add(ctx context.Context, collection string, data map[string]any) (string, error)
	// Set creates or replaces the document at docPath.
	Set(ctx context.Context, docPath string, data map[string]any) error
	// Delete returns ErrNotFound when no document exists at docPath.
	Delete(ctx context.Context, docPath string) error
	Ping(ctx context.Context) error
	Close() error
}

var reservedID = regexp.MustCompile(`^__.*__$`)

// ValidID reports whether s can be used as a single path segment.
func ValidID(s string) bool {
	if s == "" || s == "." || s == ".." || strings.Contains(s, "/") {
		return false
	}
	return !reservedID.MatchString(s)
}

// Path joins segments into a path, validating each of them.
func Path(segments ...string) (string, error) {
	for _, s := range segments {
		if !ValidID(s) {
			return "", fmt.Errorf("%w: segment %q", ErrInvalidPath, s)
		}
	}
	return strings.Join(segments, "/"), nil
}

// Split separates a document path into its collection path and id.
func Split(docPath string) (collection, id string, err error) {
	parts := strings.Split(docPath, "/")
	if len(parts) < 2 || len(parts)%2 != 0 {
		return "", "", fmt.Errorf("%w: %q is not a document path", ErrInvalidPath, docPath)
	}
	for _, p := range parts {
		if !ValidID(p) {
			return "", "", fmt.Errorf("%w: segment %q", ErrInvalidPath, p)
		}
	}
	i := strings.LastIndex(docPath, "/")
	return docPath[:i], docPath[i+1:], nil
}

func checkCollection(collection string) error {
	parts := strings.Split(collection, "/")
	if len(parts)%2 != 1 {
		return fmt.Errorf("%w: %q is not a collection path", ErrInvalidPath, collection)
	}
	for _, p := range parts {
		if !ValidID(p) {
			return fmt.Errorf("%w: segment %q", ErrInvalidPath, p)
		}
	}
	return nil
}

// NewID returns an id for backends that do not generate their own.
func NewID() string {
	return uuid.NewString()
}

// encode and decode are shared by the backends that persist documents as JSON.
func encode(data map[string]any) ([]byte, error) {
	if data == nil {
		data = map[string]any{}
	}
	b, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return b, nil
}

func decode(b []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()

	var data map[string]any
	if err := dec.Decode(&data); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	if data == nil {
		return map[string]any{}, nil
	}
	return sanitize.NormalizeRecord(data), nil
}
