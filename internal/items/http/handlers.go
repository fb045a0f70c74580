package http

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	apihttp "github.com/adminpanel-sm/adminpanel-backend/internal/api/http"
	"github.com/adminpanel-sm/adminpanel-backend/internal/items/domain"
	"github.com/adminpanel-sm/adminpanel-backend/internal/items/service"
)

// Handler bundles the dependencies for item HTTP endpoints.
type Handler struct {
	svc *service.ItemService
}

func New(svc *service.ItemService) *Handler {
	return &Handler{svc: svc}
}

// Register attaches item routes as /:project/:section on rg.
func (h *Handler) Register(rg *gin.RouterGroup, requireAdmin gin.HandlerFunc) {
	rg.GET("/:project/:section", h.list)
	rg.POST("/:project/:section", requireAdmin, h.create)
	rg.PATCH("/:project/:section", requireAdmin, h.update)
	rg.DELETE("/:project/:section", requireAdmin, h.delete)
}

func (h *Handler) list(c *gin.Context) {
	project, section := c.Param("project"), c.Param("section")

	if id := c.Query("id"); id != "" {
		item, err := h.svc.Get(c.Request.Context(), project, section, id)
		if err != nil {
			apihttp.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, item)
		return
	}

	order, err := domain.ParseOrder(c.Query("order"))
	if err != nil {
		apihttp.BadRequest(c, "order must be asc or desc")
		return
	}
	items, err := h.svc.List(c.Request.Context(), project, section, service.ListOptions{
		SortField: c.Query("sort"),
		Order:     order,
	})
	if err != nil {
		apihttp.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) create(c *gin.Context) {
	project, section := c.Param("project"), c.Param("section")

	var body map[string]any
	if err := apihttp.DecodeBody(c, &body); err != nil {
		apihttp.RespondError(c, err)
		return
	}

	item, err := h.svc.Create(c.Request.Context(), project, section, body)
	if err != nil {
		apihttp.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": fmt.Sprintf("Item created in %s/%s", project, section),
		"item":    item,
	})
}

func (h *Handler) update(c *gin.Context) {
	id := c.Query("id")
	if id == "" {
		apihttp.BadRequest(c, "Missing ID parameter for update")
		return
	}

	var patch map[string]any
	if err := apihttp.DecodeBody(c, &patch); err != nil {
		apihttp.RespondError(c, err)
		return
	}

	item, err := h.svc.Update(c.Request.Context(), c.Param("project"), c.Param("section"), id, patch)
	if err != nil {
		apihttp.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Item %s updated", id),
		"item":    item,
	})
}

func (h *Handler) delete(c *gin.Context) {
	id := c.Query("id")
	if id == "" {
		apihttp.BadRequest(c, "Missing ID parameter for deletion")
		return
	}

	if err := h.svc.Delete(c.Request.Context(), c.Param("project"), c.Param("section"), id); err != nil {
		apihttp.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Item with id %s deleted successfully", id)})
}
