package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"parceldesk/api/internal/service"
)

// AuditHandler serves the sync audit trail.
type AuditHandler struct {
	auditService *service.AuditService
}

// NewAuditHandler creates a new audit handler.
func NewAuditHandler(auditService *service.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

// RegisterRoutes registers audit routes.
func (h *AuditHandler) RegisterRoutes(r *gin.RouterGroup) {
	audit := r.Group("/audit")
	{
		audit.GET("", h.List)
		audit.GET("/stats", h.Stats)
	}
}

// List returns audit entries
// @Summary List sync audit entries
// @Tags Audit
// @Produce json
// @Param kind query string false "Entity kind"
// @Param outcome query string false "remote or fallback"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} map[string]string
// @Router /audit [get]
func (h *AuditHandler) List(c *gin.Context) {
	entries, total, err := h.auditService.List(
		c.Request.Context(),
		c.Query("kind"),
		c.Query("outcome"),
		c.Query("page"),
		c.Query("page_size"),
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data":  entries,
		"total": total,
	})
}

// Stats returns today's sync health summary
// @Summary Sync health stats
// @Tags Audit
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} map[string]string
// @Router /audit/stats [get]
func (h *AuditHandler) Stats(c *gin.Context) {
	stats, err := h.auditService.Stats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, stats)
}
