package migration

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/adminpanel-sm/adminpanel-backend/internal/docstore"
	itemsdomain "github.com/adminpanel-sm/adminpanel-backend/internal/items/domain"
	itemsrepo "github.com/adminpanel-sm/adminpanel-backend/internal/items/repository"
	projectsdomain "github.com/adminpanel-sm/adminpanel-backend/internal/projects/domain"
	projectsrepo "github.com/adminpanel-sm/adminpanel-backend/internal/projects/repository"
	schemasdomain "github.com/adminpanel-sm/adminpanel-backend/internal/schemas/domain"
	schemasrepo "github.com/adminpanel-sm/adminpanel-backend/internal/schemas/repository"
	"github.com/adminpanel-sm/adminpanel-backend/internal/sanitize"
)

// DefaultRate is the default number of store writes per second.
const DefaultRate = 10

// Importer validates file records and writes the accepted ones. Invalid
// records are reported and skipped; they never stop the run.
type Importer struct {
	projects *projectsrepo.ProjectRepository
	items    *itemsrepo.ItemRepository
	schemas  *schemasrepo.SchemaRepository
	limiter  *rate.Limiter
	log      *zap.Logger
}

// NewImporter throttles writes to perSecond; zero or less disables throttling.
func NewImporter(store docstore.Store, perSecond float64, logger *zap.Logger) *Importer {
	if logger == nil {
		logger = zap.NewNop()
	}
	limit := rate.Inf
	if perSecond > 0 {
		limit = rate.Limit(perSecond)
	}
	return &Importer{
		projects: projectsrepo.NewProjectRepository(store),
		items:    itemsrepo.NewItemRepository(store),
		schemas:  schemasrepo.NewSchemaRepository(store),
		limiter:  rate.NewLimiter(limit, 1),
		log:      logger,
	}
}

// ImportProjects sets each valid project under its key. Only key, name and
// sections are written; any other field in the record is dropped.
func (im *Importer) ImportProjects(ctx context.Context, records []any) (Report, error) {
	rep := Report{Kind: "projects"}

	for i, rec := range records {
		m, ok := rec.(map[string]any)
		if !ok {
			im.rejected(&rep, i, "", "record is not an object")
			continue
		}
		label := recordLabel(m)

		p, reason := projectFromRecord(m)
		if reason != "" {
			im.rejected(&rep, i, label, reason)
			continue
		}

		if err := im.limiter.Wait(ctx); err != nil {
			return rep, err
		}
		if err := im.projects.Put(ctx, p); err != nil {
			im.rejected(&rep, i, label, "write failed: "+err.Error())
			continue
		}
		im.accepted(&rep, i, label)
	}

	im.log.Info(rep.Summary())
	return rep, nil
}

// ImportItems adds each valid item to project/section under a fresh id. Ids
// present in the file are dropped.
func (im *Importer) ImportItems(ctx context.Context, project, section string, records []any) (Report, error) {
	rep := Report{Kind: "items"}
	if _, err := docstore.Path(project, section); err != nil {
		return rep, err
	}

	for i, rec := range records {
		label := fmt.Sprintf("%s/%s[%d]", project, section, i)

		m, ok := rec.(map[string]any)
		if !ok {
			im.rejected(&rep, i, label, "record is not an object")
			continue
		}
		fields := itemsdomain.WithoutID(m)
		if bad := sanitize.InvalidFields(fields); len(bad) > 0 {
			im.rejected(&rep, i, label, "invalid fields: "+strings.Join(bad, ", "))
			continue
		}

		if err := im.limiter.Wait(ctx); err != nil {
			return rep, err
		}
		if _, err := im.items.Add(ctx, project, section, sanitize.NormalizeRecord(fields)); err != nil {
			im.rejected(&rep, i, label, "write failed: "+err.Error())
			continue
		}
		im.accepted(&rep, i, label)
	}

	im.log.Info(rep.Summary(), zap.String("project", project), zap.String("section", section))
	return rep, nil
}

// ImportSchema replaces the schema of project/section. The schema is written
// only when every field is valid.
func (im *Importer) ImportSchema(ctx context.Context, project, section string, records []any) (Report, error) {
	rep := Report{Kind: "schema"}
	if _, err := docstore.Path(project, section); err != nil {
		return rep, err
	}

	fields := make([]schemasdomain.Field, 0, len(records))
	structural := make(map[int]string)
	for i, rec := range records {
		m, ok := rec.(map[string]any)
		if !ok {
			structural[i] = "record is not an object"
			fields = append(fields, schemasdomain.Field{})
			continue
		}
		if bad := sanitize.InvalidFields(m); len(bad) > 0 {
			structural[i] = "invalid fields: " + strings.Join(bad, ", ")
		}
		key, _ := m["key"].(string)
		typ, _ := m["type"].(string)
		fields = append(fields, schemasdomain.Field{Key: key, Type: schemasdomain.FieldType(typ)})
	}

	clean, bad := schemasdomain.Normalize(fields)
	badAt := make(map[int]string, len(bad))
	for _, b := range bad {
		var idx int
		if _, err := fmt.Sscanf(b, "fields[%d]", &idx); err == nil {
			badAt[idx] = "invalid " + b
		}
	}
	for i, reason := range structural {
		badAt[i] = reason
	}

	for i, f := range clean {
		label := f.Key
		if reason, ok := badAt[i]; ok {
			im.rejected(&rep, i, label, reason)
			continue
		}
		im.accepted(&rep, i, label)
	}

	if rep.Rejected > 0 {
		im.log.Warn("schema not written", zap.String("project", project), zap.String("section", section))
		return rep, fmt.Errorf("schema %s/%s has %d invalid fields", project, section, rep.Rejected)
	}

	if err := im.limiter.Wait(ctx); err != nil {
		return rep, err
	}
	if err := im.schemas.Put(ctx, project, section, schemasdomain.Schema{Fields: clean}); err != nil {
		return rep, fmt.Errorf("write schema %s/%s: %w", project, section, err)
	}

	im.log.Info(rep.Summary(), zap.String("project", project), zap.String("section", section))
	return rep, nil
}

func (im *Importer) accepted(rep *Report, i int, label string) {
	rep.accept(i, label)
	im.log.Info("record migrated", zap.String("kind", rep.Kind), zap.Int("index", i), zap.String("label", label))
}

func (im *Importer) rejected(rep *Report, i int, label, reason string) {
	rep.reject(i, label, reason)
	im.log.Warn("record skipped", zap.String("kind", rep.Kind), zap.Int("index", i), zap.String("label", label), zap.String("reason", reason))
}

func recordLabel(m map[string]any) string {
	if name, ok := m["name"].(string); ok && name != "" {
		return name
	}
	if key, ok := m["key"].(string); ok && key != "" {
		return key
	}
	return "Unnamed"
}

func projectFromRecord(m map[string]any) (projectsdomain.Project, string) {
	var reasons []string
	if bad := sanitize.InvalidFields(m); len(bad) > 0 {
		reasons = append(reasons, "invalid fields: "+strings.Join(bad, ", "))
	}

	key, _ := m["key"].(string)
	if !docstore.ValidID(key) {
		reasons = append(reasons, "key is not a valid document id")
	} else if projectsdomain.IsReserved(key) {
		reasons = append(reasons, "key is reserved")
	}

	name, _ := m["name"].(string)

	sections := []string{}
	switch v := m["sections"].(type) {
	case nil:
	case []any:
		for _, s := range v {
			str, ok := s.(string)
			if !ok {
				reasons = append(reasons, "sections must be strings")
				break
			}
			sections = append(sections, str)
		}
	default:
		reasons = append(reasons, "sections must be a list")
	}

	if len(reasons) > 0 {
		return projectsdomain.Project{}, strings.Join(reasons, "; ")
	}
	return projectsdomain.Project{Key: key, Name: name, Sections: sections}, ""
}
