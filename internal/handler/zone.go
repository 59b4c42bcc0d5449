package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"parceldesk/api/internal/csvcodec"
	"parceldesk/api/internal/model"
	"parceldesk/api/internal/service"
)

var zoneExportHeaders = []string{"id", "name", "slug", "locations", "description"}

// ZoneHandler handles zone management requests.
type ZoneHandler struct {
	zoneService *service.ZoneService
}

// NewZoneHandler creates a new zone handler.
func NewZoneHandler(zoneService *service.ZoneService) *ZoneHandler {
	return &ZoneHandler{zoneService: zoneService}
}

// RegisterRoutes registers zone routes.
func (h *ZoneHandler) RegisterRoutes(r *gin.RouterGroup) {
	zones := r.Group("/zones")
	{
		zones.GET("", h.List)
		zones.POST("", h.Create)
		zones.GET("/export", h.Export)
		zones.GET("/:id", h.Get)
		zones.PUT("/:id", h.Update)
		zones.DELETE("/:id", h.Delete)
	}
}

// List returns all zones
// @Summary List zones
// @Tags Zones
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /zones [get]
func (h *ZoneHandler) List(c *gin.Context) {
	zones := h.zoneService.List(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"data":  zones,
		"total": len(zones),
	})
}

// Get returns a single zone
// @Summary Get zone
// @Tags Zones
// @Produce json
// @Param id path int true "Zone ID"
// @Success 200 {object} model.Zone
// @Failure 404 {object} map[string]string
// @Router /zones/{id} [get]
func (h *ZoneHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	zone, ok := h.zoneService.Get(c.Request.Context(), id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "zone not found"})
		return
	}
	c.JSON(http.StatusOK, zone)
}

// Create creates a new zone
// @Summary Create zone
// @Tags Zones
// @Accept json
// @Produce json
// @Param zone body model.Zone true "Zone data"
// @Success 201 {object} model.Zone
// @Failure 400 {object} map[string]string
// @Router /zones [post]
func (h *ZoneHandler) Create(c *gin.Context) {
	var zone model.Zone
	if err := c.ShouldBindJSON(&zone); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.zoneService.Create(c.Request.Context(), &zone)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, created)
}

// Update applies a partial update to a zone
// @Summary Update zone
// @Description Fields absent from the body keep their current values
// @Tags Zones
// @Accept json
// @Produce json
// @Param id path int true "Zone ID"
// @Param zone body model.Zone true "Zone data"
// @Success 200 {object} model.Zone
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /zones/{id} [put]
func (h *ZoneHandler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	existing, ok := h.zoneService.Get(c.Request.Context(), id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "zone not found"})
		return
	}

	zone := *existing
	if err := c.ShouldBindJSON(&zone); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	zone.ID = id
	if err := h.zoneService.Update(c.Request.Context(), &zone); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, zone)
}

// Delete deletes a zone
// @Summary Delete zone
// @Tags Zones
// @Param id path int true "Zone ID"
// @Success 204
// @Failure 400 {object} map[string]string
// @Router /zones/{id} [delete]
func (h *ZoneHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	h.zoneService.Delete(c.Request.Context(), id)
	c.JSON(http.StatusNoContent, nil)
}

// Export downloads the collection as CSV (default) or XLSX. The
// locations column is flattened to a pipe-separated list.
func (h *ZoneHandler) Export(c *gin.Context) {
	zones := h.zoneService.List(c.Request.Context())

	rows := make([]csvcodec.Row, 0, len(zones))
	for _, zone := range zones {
		rows = append(rows, csvcodec.Row{
			"id":          strconv.FormatInt(zone.ID, 10),
			"name":        zone.Name,
			"slug":        zone.Slug,
			"locations":   strings.Join(zone.Locations, "|"),
			"description": zone.Description,
		})
	}

	if c.DefaultQuery("format", "csv") == "xlsx" {
		writeXLSXExport(c, "zones.xlsx", "Zones", rows, zoneExportHeaders)
		return
	}
	writeCSVExport(c, "zones.csv", rows, zoneExportHeaders)
}
