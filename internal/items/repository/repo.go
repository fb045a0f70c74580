package repository

import (
	"context"
	"errors"

	"github.com/adminpanel-sm/adminpanel-backend/internal/docstore"
	"github.com/adminpanel-sm/adminpanel-backend/internal/items/domain"
)

// ItemRepository stores items in projects/{project}/sections/{section}/items.
type ItemRepository struct {
	store docstore.Store
}

func NewItemRepository(store docstore.Store) *ItemRepository {
	return &ItemRepository{store: store}
}

func itemsCollection(project, section string) (string, error) {
	return docstore.Path("projects", project, "sections", section, "items")
}

func itemPath(project, section, id string) (string, error) {
	return docstore.Path("projects", project, "sections", section, "items", id)
}

// List returns every item of the section in store order.
func (r *ItemRepository) List(ctx context.Context, project, section string) ([]domain.Item, error) {
	col, err := itemsCollection(project, section)
	if err != nil {
		return nil, err
	}
	docs, err := r.store.List(ctx, col)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Item, 0, len(docs))
	for _, d := range docs {
		out = append(out, domain.Item{ID: d.ID, Fields: domain.WithoutID(d.Data)})
	}
	return out, nil
}

// Get returns domain.ErrNotFound when the item does not exist.
func (r *ItemRepository) Get(ctx context.Context, project, section, id string) (*domain.Item, error) {
	p, err := itemPath(project, section, id)
	if err != nil {
		return nil, err
	}
	doc, err := r.store.Get(ctx, p)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &domain.Item{ID: doc.ID, Fields: domain.WithoutID(doc.Data)}, nil
}

// Add stores fields under a new id.
func (r *ItemRepository) Add(ctx context.Context, project, section string, fields map[string]any) (*domain.Item, error) {
	col, err := itemsCollection(project, section)
	if err != nil {
		return nil, err
	}
	id, err := r.store.Add(ctx, col, fields)
	if err != nil {
		return nil, err
	}
	return &domain.Item{ID: id, Fields: fields}, nil
}

// Put replaces the whole item document.
func (r *ItemRepository) Put(ctx context.Context, project, section string, item domain.Item) error {
	p, err := itemPath(project, section, item.ID)
	if err != nil {
		return err
	}
	return r.store.Set(ctx, p, item.Fields)
}

// Delete returns domain.ErrNotFound when the item does not exist.
func (r *ItemRepository) Delete(ctx context.Context, project, section, id string) error {
	p, err := itemPath(project, section, id)
	if err != nil {
		return err
	}
	err = r.store.Delete(ctx, p)
	if errors.Is(err, docstore.ErrNotFound) {
		return domain.ErrNotFound
	}
	return err
}
