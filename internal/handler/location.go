package handler

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"parceldesk/api/internal/csvcodec"
	"parceldesk/api/internal/model"
	"parceldesk/api/internal/service"
)

var locationExportHeaders = []string{"id", "name", "slug", "country"}

// LocationHandler handles location management requests.
type LocationHandler struct {
	locationService *service.LocationService
	importer        *service.LocationImporter
}

// NewLocationHandler creates a new location handler.
func NewLocationHandler(locationService *service.LocationService, importer *service.LocationImporter) *LocationHandler {
	return &LocationHandler{locationService: locationService, importer: importer}
}

// RegisterRoutes registers location routes.
func (h *LocationHandler) RegisterRoutes(r *gin.RouterGroup) {
	locations := r.Group("/locations")
	{
		locations.GET("", h.List)
		locations.POST("", h.Create)
		locations.GET("/export", h.Export)

		// Bulk import
		locations.GET("/import-template", h.DownloadImportTemplate)
		locations.POST("/import-preview", h.PreviewImport)
		locations.POST("/import", h.Import)
		locations.GET("/import/:task_id/status", h.GetImportStatus)
		locations.GET("/import/:task_id/errors", h.DownloadErrorReport)

		locations.GET("/:id", h.Get)
		locations.PUT("/:id", h.Update)
		locations.DELETE("/:id", h.Delete)
	}
}

// List returns all locations
// @Summary List locations
// @Description List locations; served from the local cache when the upstream service is unreachable
// @Tags Locations
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /locations [get]
func (h *LocationHandler) List(c *gin.Context) {
	locations := h.locationService.List(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"data":  locations,
		"total": len(locations),
	})
}

// Get returns a single location
// @Summary Get location
// @Tags Locations
// @Produce json
// @Param id path int true "Location ID"
// @Success 200 {object} model.Location
// @Failure 404 {object} map[string]string
// @Router /locations/{id} [get]
func (h *LocationHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	loc, ok := h.locationService.Get(c.Request.Context(), id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "location not found"})
		return
	}
	c.JSON(http.StatusOK, loc)
}

// Create creates a new location
// @Summary Create location
// @Tags Locations
// @Accept json
// @Produce json
// @Param location body model.Location true "Location data"
// @Success 201 {object} model.Location
// @Failure 400 {object} map[string]string
// @Router /locations [post]
func (h *LocationHandler) Create(c *gin.Context) {
	var loc model.Location
	if err := c.ShouldBindJSON(&loc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.locationService.Create(c.Request.Context(), &loc)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, created)
}

// Update applies a partial update to a location
// @Summary Update location
// @Description Fields absent from the body keep their current values
// @Tags Locations
// @Accept json
// @Produce json
// @Param id path int true "Location ID"
// @Param location body model.Location true "Location data"
// @Success 200 {object} model.Location
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /locations/{id} [put]
func (h *LocationHandler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	existing, ok := h.locationService.Get(c.Request.Context(), id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "location not found"})
		return
	}

	// Bind onto a copy of the current record so omitted fields keep
	// their values.
	loc := *existing
	if err := c.ShouldBindJSON(&loc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	loc.ID = id
	if err := h.locationService.Update(c.Request.Context(), &loc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, loc)
}

// Delete deletes a location
// @Summary Delete location
// @Tags Locations
// @Param id path int true "Location ID"
// @Success 204
// @Failure 400 {object} map[string]string
// @Router /locations/{id} [delete]
func (h *LocationHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	h.locationService.Delete(c.Request.Context(), id)
	c.JSON(http.StatusNoContent, nil)
}

// Export downloads the collection as CSV (default) or XLSX.
func (h *LocationHandler) Export(c *gin.Context) {
	locations := h.locationService.List(c.Request.Context())

	rows := make([]csvcodec.Row, 0, len(locations))
	for _, loc := range locations {
		rows = append(rows, csvcodec.Row{
			"id":      strconv.FormatInt(loc.ID, 10),
			"name":    loc.Name,
			"slug":    loc.Slug,
			"country": loc.Country,
		})
	}

	if c.DefaultQuery("format", "csv") == "xlsx" {
		writeXLSXExport(c, "locations.xlsx", "Locations", rows, locationExportHeaders)
		return
	}
	writeCSVExport(c, "locations.csv", rows, locationExportHeaders)
}

// DownloadImportTemplate serves the XLSX import template.
func (h *LocationHandler) DownloadImportTemplate(c *gin.Context) {
	buf, err := h.importer.Template()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Header("Content-Type", xlsxContentType)
	c.Header("Content-Disposition", "attachment; filename=location_import_template.xlsx")
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// PreviewImport validates an uploaded file without importing.
func (h *LocationHandler) PreviewImport(c *gin.Context) {
	rows, ok := h.parseUpload(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.importer.Preview(rows))
}

// Import validates an uploaded file and starts the async import task.
func (h *LocationHandler) Import(c *gin.Context) {
	rows, ok := h.parseUpload(c)
	if !ok {
		return
	}

	validated := h.importer.ValidateRows(rows)
	taskID := fmt.Sprintf("import_%s", uuid.NewString())

	h.importer.Import(c.Request.Context(), taskID, validated)

	c.JSON(http.StatusAccepted, gin.H{
		"task_id":   taskID,
		"total":     len(rows),
		"check_url": fmt.Sprintf("/api/v1/locations/import/%s/status", taskID),
	})
}

// GetImportStatus returns the live state of an import task.
func (h *LocationHandler) GetImportStatus(c *gin.Context) {
	result, ok := h.importer.Result(c.Param("task_id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}
	c.JSON(http.StatusOK, result)
}

// DownloadErrorReport returns the failing rows of a finished task as
// XLSX.
func (h *LocationHandler) DownloadErrorReport(c *gin.Context) {
	buf, ok, err := h.importer.ErrorReport(c.Param("task_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}
	c.Header("Content-Type", xlsxContentType)
	c.Header("Content-Disposition", "attachment; filename=location_import_errors.xlsx")
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// parseUpload reads the multipart "file" field as XLSX or CSV based on
// the filename extension.
func (h *LocationHandler) parseUpload(c *gin.Context) ([]model.LocationImportRow, bool) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file upload is required"})
		return nil, false
	}
	defer file.Close()

	filename := header.Filename
	if len(filename) > 5 && filename[len(filename)-5:] == ".xlsx" {
		rows, err := h.importer.ParseXLSX(file)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return nil, false
		}
		if len(rows) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "file contains no data rows"})
			return nil, false
		}
		return rows, true
	}

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read uploaded file"})
		return nil, false
	}
	rows := h.importer.ParseCSV(string(data))
	if len(rows) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file contains no data rows"})
		return nil, false
	}
	return rows, true
}
