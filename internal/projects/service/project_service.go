package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/adminpanel-sm/adminpanel-backend/internal/apperr"
	"github.com/adminpanel-sm/adminpanel-backend/internal/docstore"
	"github.com/adminpanel-sm/adminpanel-backend/internal/projects/domain"
	"github.com/adminpanel-sm/adminpanel-backend/internal/projects/repository"
)

// ProjectService handles project-related business logic
type ProjectService struct {
	repo *repository.ProjectRepository
}

// NewProjectService creates a new project service
func NewProjectService(repo *repository.ProjectRepository) *ProjectService {
	return &ProjectService{
		repo: repo,
	}
}

// List returns all projects ordered by key
func (s *ProjectService) List(ctx context.Context) ([]domain.Project, error) {
	out, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperr.Store("Error fetching projects", err)
	}
	return out, nil
}

// GetByKey returns a single project
func (s *ProjectService) GetByKey(ctx context.Context, key string) (*domain.Project, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}
	p, err := s.repo.Get(ctx, key)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, notFound(key)
	}
	if err != nil {
		return nil, apperr.Store("Error fetching project", err)
	}
	return p, nil
}

// Create derives the key and section slugs, then inserts the project.
// An existing key is a conflict and the stored project is left as it was.
func (s *ProjectService) Create(ctx context.Context, in domain.CreateInput) (*domain.Project, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperr.Validation("Project name is required", "name")
	}

	source := in.Key
	if strings.TrimSpace(source) == "" {
		source = name
	}
	key := domain.Slugify(source)
	if key == "" {
		return nil, apperr.Validation("Project key must contain at least one letter, digit or underscore", "key")
	}
	if err := checkKey(key); err != nil {
		return nil, err
	}
	if domain.IsReserved(key) {
		return nil, apperr.Validation(fmt.Sprintf("Project key %q is reserved", key), "key")
	}

	p := domain.Project{
		Key:      key,
		Name:     name,
		Sections: domain.SlugifySections(in.Sections),
	}
	err := s.repo.Create(ctx, p)
	if errors.Is(err, domain.ErrAlreadyExists) {
		return nil, apperr.Conflict(fmt.Sprintf("Project key %q already exists.", key))
	}
	if err != nil {
		return nil, apperr.Store("Error creating project", err)
	}
	return &p, nil
}

// Update merges patch over the stored project and writes the result back.
func (s *ProjectService) Update(ctx context.Context, key string, patch domain.Patch) (*domain.Project, error) {
	if len(patch.Unknown) > 0 {
		return nil, apperr.Validation("Unknown project fields: "+strings.Join(patch.Unknown, ", "), patch.Unknown...)
	}

	p, err := s.GetByKey(ctx, key)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, apperr.Validation("Project name is required", "name")
		}
		p.Name = name
	}
	if patch.Sections != nil {
		p.Sections = domain.SlugifySections(patch.Sections)
	}

	if err := s.repo.Put(ctx, *p); err != nil {
		return nil, apperr.Store("Error updating project", err)
	}
	return p, nil
}

// Delete removes a project
func (s *ProjectService) Delete(ctx context.Context, key string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	err := s.repo.Delete(ctx, key)
	if errors.Is(err, domain.ErrNotFound) {
		return notFound(key)
	}
	if err != nil {
		return apperr.Store("Error deleting project", err)
	}
	return nil
}

func checkKey(key string) error {
	if !docstore.ValidID(key) {
		return apperr.Validation(fmt.Sprintf("Invalid project key %q", key), "key")
	}
	return nil
}

func notFound(key string) error {
	return apperr.NotFound(fmt.Sprintf("Project %s not found", key))
}
