package repository

import (
	"context"
	"errors"

	"github.com/adminpanel-sm/adminpanel-backend/internal/docstore"
	"github.com/adminpanel-sm/adminpanel-backend/internal/schemas/domain"
)

// SchemaRepository stores one schema per section, on the section document itself.
// Writes always go there; reads fall back to the legacy schema document.
type SchemaRepository struct {
	store docstore.Store
}

func NewSchemaRepository(store docstore.Store) *SchemaRepository {
	return &SchemaRepository{store: store}
}

func sectionPath(project, section string) (string, error) {
	return docstore.Path("projects", project, "sections", section)
}

// Get returns nil, nil when the section has no schema. Schemas written by
// the old import scripts live at sections/{s}/schema/fields and are read
// from there when the section document carries none.
func (r *SchemaRepository) Get(ctx context.Context, project, section string) (*domain.Schema, error) {
	p, err := sectionPath(project, section)
	if err != nil {
		return nil, err
	}

	s, err := r.read(ctx, p)
	if s != nil || err != nil {
		return s, err
	}
	return r.read(ctx, legacyPath(p))
}

func legacyPath(sectionPath string) string {
	return sectionPath + "/schema/fields"
}

func (r *SchemaRepository) read(ctx context.Context, docPath string) (*domain.Schema, error) {
	doc, err := r.store.Get(ctx, docPath)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if _, ok := doc.Data["fields"]; !ok {
		return nil, nil
	}
	s := domain.FromRecord(doc.Data)
	return &s, nil
}

// Put replaces the section's schema wholesale.
func (r *SchemaRepository) Put(ctx context.Context, project, section string, s domain.Schema) error {
	p, err := sectionPath(project, section)
	if err != nil {
		return err
	}
	return r.store.Set(ctx, p, s.Record())
}
