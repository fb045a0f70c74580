package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/adminpanel-sm/adminpanel-backend/internal/apperr"
	"github.com/adminpanel-sm/adminpanel-backend/internal/docstore"
	"github.com/adminpanel-sm/adminpanel-backend/internal/items/domain"
	"github.com/adminpanel-sm/adminpanel-backend/internal/items/repository"
	projectdomain "github.com/adminpanel-sm/adminpanel-backend/internal/projects/domain"
	"github.com/adminpanel-sm/adminpanel-backend/internal/sanitize"
	schemadomain "github.com/adminpanel-sm/adminpanel-backend/internal/schemas/domain"
)

// SchemaReader looks up a section's schema; nil means the section has none.
type SchemaReader interface {
	Get(ctx context.Context, project, section string) (*schemadomain.Schema, error)
}

// ListOptions sorts a listing by one numeric field when SortField is set.
type ListOptions struct {
	SortField string
	Order     domain.Order
}

// ItemService handles item CRUD for one section at a time
type ItemService struct {
	repo    *repository.ItemRepository
	schemas SchemaReader
}

// NewItemService creates a new item service. When schemas is non-nil, writes
// are rejected if they carry keys the section schema does not declare.
func NewItemService(repo *repository.ItemRepository, schemas SchemaReader) *ItemService {
	return &ItemService{repo: repo, schemas: schemas}
}

func (s *ItemService) List(ctx context.Context, project, section string, opts ListOptions) ([]domain.Item, error) {
	if err := checkSection(project, section); err != nil {
		return nil, err
	}
	items, err := s.repo.List(ctx, project, section)
	if err != nil {
		return nil, apperr.Store("Server error processing request", err)
	}
	if opts.SortField != "" {
		domain.SortByNumber(items, opts.SortField, opts.Order)
	}
	return items, nil
}

func (s *ItemService) Get(ctx context.Context, project, section, id string) (*domain.Item, error) {
	if err := checkItem(project, section, id); err != nil {
		return nil, err
	}
	item, err := s.repo.Get(ctx, project, section, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, apperr.NotFound(fmt.Sprintf("Item with id %s not found", id))
	}
	if err != nil {
		return nil, apperr.Store("Server error processing request", err)
	}
	return item, nil
}

// Create validates every top-level field and stores the record under a new id.
// An id in data is discarded.
func (s *ItemService) Create(ctx context.Context, project, section string, data map[string]any) (*domain.Item, error) {
	if err := checkSection(project, section); err != nil {
		return nil, err
	}
	fields, err := s.prepare(ctx, project, section, data)
	if err != nil {
		return nil, err
	}

	item, err := s.repo.Add(ctx, project, section, fields)
	if err != nil {
		return nil, apperr.Store("Error creating item", err)
	}
	return item, nil
}

// Update merges patch over the stored item and writes the whole document back.
// Concurrent updates race: whichever write lands last replaces the document.
func (s *ItemService) Update(ctx context.Context, project, section, id string, patch map[string]any) (*domain.Item, error) {
	if err := checkItem(project, section, id); err != nil {
		return nil, err
	}
	fields, err := s.prepare(ctx, project, section, patch)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.Get(ctx, project, section, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, apperr.NotFound(fmt.Sprintf("Item with id %s not found to update", id))
	}
	if err != nil {
		return nil, apperr.Store("Error updating item", err)
	}

	merged := domain.Item{ID: existing.ID, Fields: domain.Merge(existing.Fields, fields)}
	if err := s.repo.Put(ctx, project, section, merged); err != nil {
		return nil, apperr.Store("Error updating item", err)
	}
	return &merged, nil
}

func (s *ItemService) Delete(ctx context.Context, project, section, id string) error {
	if err := checkItem(project, section, id); err != nil {
		return err
	}
	err := s.repo.Delete(ctx, project, section, id)
	if errors.Is(err, domain.ErrNotFound) {
		return apperr.NotFound(fmt.Sprintf("Item with id %s not found to delete", id))
	}
	if err != nil {
		return apperr.Store("Error deleting item", err)
	}
	return nil
}

// prepare drops the id, rejects unrepresentable values and, when enforcing,
// keys outside the schema. Nothing is written if it fails.
func (s *ItemService) prepare(ctx context.Context, project, section string, data map[string]any) (map[string]any, error) {
	fields := domain.WithoutID(data)
	if bad := sanitize.InvalidFields(fields); len(bad) > 0 {
		return nil, apperr.Validation("Invalid fields: "+strings.Join(bad, ", "), bad...)
	}
	if err := s.enforceSchema(ctx, project, section, fields); err != nil {
		return nil, err
	}
	return sanitize.NormalizeRecord(fields), nil
}

func (s *ItemService) enforceSchema(ctx context.Context, project, section string, fields map[string]any) error {
	if s.schemas == nil {
		return nil
	}
	schema, err := s.schemas.Get(ctx, project, section)
	if err != nil {
		return err
	}
	if schema == nil {
		return nil
	}

	allowed := schema.Keys()
	var extra []string
	for k := range fields {
		if !allowed[k] {
			extra = append(extra, k)
		}
	}
	if len(extra) == 0 {
		return nil
	}
	sort.Strings(extra)
	return apperr.Validation("Fields not declared in section schema: "+strings.Join(extra, ", "), extra...)
}

func checkSection(project, section string) error {
	if !docstore.ValidID(project) || projectdomain.IsReserved(project) {
		return apperr.Validation("Invalid project key", "project")
	}
	if !docstore.ValidID(section) {
		return apperr.Validation("Invalid section name", "section")
	}
	return nil
}

func checkItem(project, section, id string) error {
	if err := checkSection(project, section); err != nil {
		return err
	}
	if !docstore.ValidID(id) {
		return apperr.Validation("Invalid item id", "id")
	}
	return nil
}
