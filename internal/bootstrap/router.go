package bootstrap

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	httpapi "github.com/adminpanel-sm/adminpanel-backend/internal/api/http"
	reqmw "github.com/adminpanel-sm/adminpanel-backend/internal/api/http/middleware"
	"github.com/adminpanel-sm/adminpanel-backend/internal/auth"
	authhttp "github.com/adminpanel-sm/adminpanel-backend/internal/auth/http"
	authmw "github.com/adminpanel-sm/adminpanel-backend/internal/auth/middleware"
	"github.com/adminpanel-sm/adminpanel-backend/internal/auth/session"
	"github.com/adminpanel-sm/adminpanel-backend/internal/docstore"
	itemshttp "github.com/adminpanel-sm/adminpanel-backend/internal/items/http"
	itemsrepo "github.com/adminpanel-sm/adminpanel-backend/internal/items/repository"
	itemssvc "github.com/adminpanel-sm/adminpanel-backend/internal/items/service"
	projectshttp "github.com/adminpanel-sm/adminpanel-backend/internal/projects/http"
	projectsrepo "github.com/adminpanel-sm/adminpanel-backend/internal/projects/repository"
	projectssvc "github.com/adminpanel-sm/adminpanel-backend/internal/projects/service"
	schemashttp "github.com/adminpanel-sm/adminpanel-backend/internal/schemas/http"
	schemasrepo "github.com/adminpanel-sm/adminpanel-backend/internal/schemas/repository"
	schemassvc "github.com/adminpanel-sm/adminpanel-backend/internal/schemas/service"
)

type RouterDeps struct {
	ServiceName string
	Version     string
	Driver      string
	Store       docstore.Store
	Gate        *auth.Gate
	Sessions    *session.Manager
	Logger      *zap.Logger

	CORSOrigins       []string
	CookieSecure      bool
	EnforceItemSchema bool
}

// BuildRouter wires every feature onto one engine. The static /api/projects,
// /api/schemas and /api/auth routes take precedence over /api/:project/:section.
func BuildRouter(dep RouterDeps) *gin.Engine {
	logger := dep.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(corsMiddleware(dep.CORSOrigins))
	r.Use(reqmw.RequestIDMiddleware(logger))

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.Driver, dep.Store)
	healthHandler.RegisterRoutes(r)

	requireAdmin := authmw.RequireAdmin(dep.Gate, dep.Sessions)
	api := r.Group("/api")

	authhttp.New(dep.Gate, dep.Sessions, dep.CookieSecure).Register(api.Group("/auth"), requireAdmin)

	projectService := projectssvc.NewProjectService(projectsrepo.NewProjectRepository(dep.Store))
	projectshttp.New(projectService).Register(api.Group("/projects"), requireAdmin)

	schemaService := schemassvc.NewSchemaService(schemasrepo.NewSchemaRepository(dep.Store))
	schemashttp.New(schemaService).Register(api.Group("/schemas"), requireAdmin)

	var schemaReader itemssvc.SchemaReader
	if dep.EnforceItemSchema {
		schemaReader = schemaService
	}
	itemService := itemssvc.NewItemService(itemsrepo.NewItemRepository(dep.Store), schemaReader)
	itemshttp.New(itemService).Register(api, requireAdmin)

	return r
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", auth.HeaderAdminKey, "X-Request-Id"},
		ExposeHeaders: []string{"X-Request-Id"},
		MaxAge:        12 * time.Hour,
	}

	wildcard := len(origins) == 0
	for _, o := range origins {
		if o == "*" {
			wildcard = true
		}
	}
	if wildcard {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
		cfg.AllowCredentials = true
	}
	return cors.New(cfg)
}
