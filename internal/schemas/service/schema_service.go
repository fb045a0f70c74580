package service

import (
	"context"

	"github.com/adminpanel-sm/adminpanel-backend/internal/apperr"
	"github.com/adminpanel-sm/adminpanel-backend/internal/docstore"
	"github.com/adminpanel-sm/adminpanel-backend/internal/schemas/domain"
	"github.com/adminpanel-sm/adminpanel-backend/internal/schemas/repository"
)

// SchemaService reads and replaces section schemas
type SchemaService struct {
	repo *repository.SchemaRepository
}

func NewSchemaService(repo *repository.SchemaRepository) *SchemaService {
	return &SchemaService{repo: repo}
}

// Get returns nil when the section has no schema.
func (s *SchemaService) Get(ctx context.Context, project, section string) (*domain.Schema, error) {
	if err := checkSection(project, section); err != nil {
		return nil, err
	}
	schema, err := s.repo.Get(ctx, project, section)
	if err != nil {
		return nil, apperr.Store("Server error fetching schema", err)
	}
	return schema, nil
}

// Set replaces the section's schema with fields. There is no merge with the previous version.
func (s *SchemaService) Set(ctx context.Context, project, section string, fields []domain.Field) (*domain.Schema, error) {
	if err := checkSection(project, section); err != nil {
		return nil, err
	}

	clean, bad := domain.Normalize(fields)
	if len(bad) > 0 {
		return nil, apperr.Validation("Invalid schema fields", bad...)
	}

	schema := domain.Schema{Fields: clean}
	if err := s.repo.Put(ctx, project, section, schema); err != nil {
		return nil, apperr.Store("Error updating schema", err)
	}
	return &schema, nil
}

func checkSection(project, section string) error {
	if !docstore.ValidID(project) {
		return apperr.Validation("Invalid project key", "project")
	}
	if !docstore.ValidID(section) {
		return apperr.Validation("Invalid section name", "section")
	}
	return nil
}
