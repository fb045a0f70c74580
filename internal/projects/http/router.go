package http

import "github.com/gin-gonic/gin"

// Register attaches project routes to the given router group. Reads are
// public; requireAdmin guards the mutating verbs.
func (h *Handler) Register(rg *gin.RouterGroup, requireAdmin gin.HandlerFunc) {
	rg.GET("", h.list)
	rg.POST("", requireAdmin, h.create)
	rg.PATCH("", requireAdmin, h.update)
	rg.DELETE("", requireAdmin, h.delete)
}
