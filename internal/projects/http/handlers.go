package http

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	apihttp "github.com/adminpanel-sm/adminpanel-backend/internal/api/http"
	"github.com/adminpanel-sm/adminpanel-backend/internal/projects/domain"
)

const missingKey = "Missing project key"

// list returns every project as a bare array, or one project when ?key= is given.
func (h *Handler) list(c *gin.Context) {
	if key, ok := c.GetQuery("key"); ok {
		h.get(c, key)
		return
	}

	projects, err := h.svc.List(c.Request.Context())
	if err != nil {
		apihttp.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, projects)
}

func (h *Handler) get(c *gin.Context, key string) {
	if strings.TrimSpace(key) == "" {
		apihttp.BadRequest(c, missingKey)
		return
	}
	p, err := h.svc.GetByKey(c.Request.Context(), key)
	if err != nil {
		apihttp.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) create(c *gin.Context) {
	var req domain.CreateInput
	if err := apihttp.DecodeBody(c, &req); err != nil {
		apihttp.RespondError(c, err)
		return
	}

	p, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		apihttp.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": fmt.Sprintf("Project %s created", p.Name),
		"project": p,
	})
}

func (h *Handler) update(c *gin.Context) {
	key := c.Query("key")
	if strings.TrimSpace(key) == "" {
		apihttp.BadRequest(c, missingKey)
		return
	}

	var patch domain.Patch
	if err := apihttp.DecodeBody(c, &patch); err != nil {
		apihttp.RespondError(c, err)
		return
	}

	p, err := h.svc.Update(c.Request.Context(), key, patch)
	if err != nil {
		apihttp.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Project %s updated", key),
		"project": p,
	})
}

func (h *Handler) delete(c *gin.Context) {
	key := c.Query("key")
	if strings.TrimSpace(key) == "" {
		apihttp.BadRequest(c, missingKey)
		return
	}

	if err := h.svc.Delete(c.Request.Context(), key); err != nil {
		apihttp.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Project %s deleted successfully", key)})
}
