package repository

import (
	"context"
	"errors"

	"github.com/adminpanel-sm/adminpanel-backend/internal/docstore"
	"github.com/adminpanel-sm/adminpanel-backend/internal/projects/domain"
)

const collection = "projects"

// ProjectRepository provides persistence operations for projects
type ProjectRepository struct {
	store docstore.Store
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(store docstore.Store) *ProjectRepository {
	return &ProjectRepository{store: store}
}

// List returns every project ordered by key.
func (r *ProjectRepository) List(ctx context.Context) ([]domain.Project, error) {
	docs, err := r.store.List(ctx, collection)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Project, 0, len(docs))
	for _, d := range docs {
		out = append(out, domain.FromRecord(d.ID, d.Data))
	}
	return out, nil
}

// Get returns domain.ErrNotFound when no project has the key.
func (r *ProjectRepository) Get(ctx context.Context, key string) (*domain.Project, error) {
	doc, err := r.store.Get(ctx, collection+"/"+key)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	p := domain.FromRecord(doc.ID, doc.Data)
	return &p, nil
}

// Create inserts p and returns domain.ErrAlreadyExists if its key is taken.
func (r *ProjectRepository) Create(ctx context.Context, p domain.Project) error {
	err := r.store.Create(ctx, collection+"/"+p.Key, p.Record())
	if errors.Is(err, docstore.ErrAlreadyExists) {
		return domain.ErrAlreadyExists
	}
	return err
}

// Put writes the whole project, replacing any stored version.
func (r *ProjectRepository) Put(ctx context.Context, p domain.Project) error {
	return r.store.Set(ctx, collection+"/"+p.Key, p.Record())
}

// Delete removes the project document. Sections and items stored beneath it are left alone.
func (r *ProjectRepository) Delete(ctx context.Context, key string) error {
	err := r.store.Delete(ctx, collection+"/"+key)
	if errors.Is(err, docstore.ErrNotFound) {
		return domain.ErrNotFound
	}
	return err
}
