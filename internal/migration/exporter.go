package migration

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/adminpanel-sm/adminpanel-backend/internal/docstore"
	itemsrepo "github.com/adminpanel-sm/adminpanel-backend/internal/items/repository"
	projectsrepo "github.com/adminpanel-sm/adminpanel-backend/internal/projects/repository"
	schemasrepo "github.com/adminpanel-sm/adminpanel-backend/internal/schemas/repository"
)

// ExportSummary counts what an export wrote.
type ExportSummary struct {
	Dir      string `json:"dir"`
	Projects int    `json:"projects"`
	Sections int    `json:"sections"`
	Items    int    `json:"items"`
	Schemas  int    `json:"schemas"`
}

// Exporter dumps the store into the layout the importer reads. Only the
// sections listed on a project are exported.
type Exporter struct {
	projects *projectsrepo.ProjectRepository
	items    *itemsrepo.ItemRepository
	schemas  *schemasrepo.SchemaRepository
	log      *zap.Logger
}

func NewExporter(store docstore.Store, logger *zap.Logger) *Exporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Exporter{
		projects: projectsrepo.NewProjectRepository(store),
		items:    itemsrepo.NewItemRepository(store),
		schemas:  schemasrepo.NewSchemaRepository(store),
		log:      logger,
	}
}

func (e *Exporter) Export(ctx context.Context, dir string) (ExportSummary, error) {
	sum := ExportSummary{Dir: dir}

	projects, err := e.projects.List(ctx)
	if err != nil {
		return sum, fmt.Errorf("list projects: %w", err)
	}
	if err := writeJSON(filepath.Join(dir, "projects.json"), projects); err != nil {
		return sum, err
	}
	sum.Projects = len(projects)

	for _, p := range projects {
		for _, section := range p.Sections {
			if !docstore.ValidID(section) {
				e.log.Warn("skipping section with invalid name", zap.String("project", p.Key), zap.String("section", section))
				continue
			}

			items, err := e.items.List(ctx, p.Key, section)
			if err != nil {
				return sum, fmt.Errorf("list items %s/%s: %w", p.Key, section, err)
			}
			if err := writeJSON(filepath.Join(dir, "data", p.Key, section+".json"), items); err != nil {
				return sum, err
			}
			sum.Sections++
			sum.Items += len(items)

			schema, err := e.schemas.Get(ctx, p.Key, section)
			if err != nil {
				return sum, fmt.Errorf("get schema %s/%s: %w", p.Key, section, err)
			}
			if schema == nil {
				continue
			}
			if err := writeJSON(filepath.Join(dir, "schema-db", p.Key+"-"+section+".json"), schema.Fields); err != nil {
				return sum, err
			}
			sum.Schemas++
		}
	}

	e.log.Info("export finished",
		zap.String("dir", dir),
		zap.Int("projects", sum.Projects),
		zap.Int("sections", sum.Sections),
		zap.Int("items", sum.Items),
		zap.Int("schemas", sum.Schemas),
	)
	return sum, nil
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(path), err)
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, append(b, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
