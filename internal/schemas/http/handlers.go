package http

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	apihttp "github.com/adminpanel-sm/adminpanel-backend/internal/api/http"
	"github.com/adminpanel-sm/adminpanel-backend/internal/apperr"
	"github.com/adminpanel-sm/adminpanel-backend/internal/schemas/domain"
	"github.com/adminpanel-sm/adminpanel-backend/internal/schemas/service"
)

// Handler bundles the dependencies for schema HTTP endpoints.
type Handler struct {
	svc *service.SchemaService
}

func New(svc *service.SchemaService) *Handler {
	return &Handler{svc: svc}
}

// Register attaches schema routes under /schemas.
func (h *Handler) Register(rg *gin.RouterGroup, requireAdmin gin.HandlerFunc) {
	rg.GET("/:project/:section", h.get)
	rg.POST("/:project/:section", requireAdmin, h.set)
}

func (h *Handler) get(c *gin.Context) {
	schema, err := h.svc.Get(c.Request.Context(), c.Param("project"), c.Param("section"))
	if err != nil {
		apihttp.RespondError(c, err)
		return
	}
	if schema == nil {
		c.JSON(http.StatusOK, domain.Empty())
		return
	}
	c.JSON(http.StatusOK, schema)
}

func (h *Handler) set(c *gin.Context) {
	var raw json.RawMessage
	if err := apihttp.DecodeBody(c, &raw); err != nil {
		apihttp.RespondError(c, err)
		return
	}
	fields, err := decodeFields(raw)
	if err != nil {
		apihttp.RespondError(c, err)
		return
	}

	schema, err := h.svc.Set(c.Request.Context(), c.Param("project"), c.Param("section"), fields)
	if err != nil {
		apihttp.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, schema)
}

// decodeFields accepts the bare array the admin form posts, or {"fields": [...]}.
func decodeFields(raw json.RawMessage) ([]domain.Field, error) {
	var fields []domain.Field
	if bytes.HasPrefix(bytes.TrimSpace(raw), []byte("[")) {
		if err := json.Unmarshal(raw, &fields); err != nil {
			return nil, apperr.Validation("Schema must be a list of {key, type} fields", "fields")
		}
		return fields, nil
	}

	var body struct {
		Fields *[]domain.Field `json:"fields"`
	}
	if err := json.Unmarshal(raw, &body); err != nil || body.Fields == nil {
		return nil, apperr.Validation("Schema must be a list of {key, type} fields", "fields")
	}
	return *body.Fields, nil
}
