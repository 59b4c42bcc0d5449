package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"parceldesk/api/internal/csvcodec"
	"parceldesk/api/internal/model"
	"parceldesk/api/internal/service"
	"parceldesk/api/internal/weight"
)

var (
	shippingRateExportHeaders = []string{"id", "name", "type", "min_weight", "max_weight", "rate", "insurance", "description"}
	pickupRateExportHeaders   = []string{"id", "zone", "min_weight", "max_weight", "rate", "description"}
)

// RateHandler handles shipping and pickup rate requests.
type RateHandler struct {
	rateService *service.RateService
	divisor     float64
}

// NewRateHandler creates a new rate handler. divisor is the volumetric
// divisor used by the rate preview.
func NewRateHandler(rateService *service.RateService, divisor float64) *RateHandler {
	return &RateHandler{rateService: rateService, divisor: divisor}
}

// RegisterRoutes registers rate routes.
func (h *RateHandler) RegisterRoutes(r *gin.RouterGroup) {
	rates := r.Group("/rates")
	{
		rates.POST("/preview", h.Preview)

		shipping := rates.Group("/shipping")
		{
			shipping.GET("", h.ListShipping)
			shipping.POST("", h.CreateShipping)
			shipping.GET("/export", h.ExportShipping)
			shipping.PUT("/:id", h.UpdateShipping)
			shipping.DELETE("/:id", h.DeleteShipping)
		}

		pickup := rates.Group("/pickup")
		{
			pickup.GET("", h.ListPickup)
			pickup.POST("", h.CreatePickup)
			pickup.GET("/export", h.ExportPickup)
			pickup.PUT("/:id", h.UpdatePickup)
			pickup.DELETE("/:id", h.DeletePickup)
		}
	}
}

// ListShipping returns all shipping rates
// @Summary List shipping rates
// @Tags Rates
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /rates/shipping [get]
func (h *RateHandler) ListShipping(c *gin.Context) {
	rates := h.rateService.ListShipping(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"data":  rates,
		"total": len(rates),
	})
}

// CreateShipping creates a new shipping rate
// @Summary Create shipping rate
// @Tags Rates
// @Accept json
// @Produce json
// @Param rate body model.ShippingRate true "Shipping rate data"
// @Success 201 {object} model.ShippingRate
// @Failure 400 {object} map[string]string
// @Router /rates/shipping [post]
func (h *RateHandler) CreateShipping(c *gin.Context) {
	var rate model.ShippingRate
	if err := c.ShouldBindJSON(&rate); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.rateService.CreateShipping(c.Request.Context(), &rate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, created)
}

// UpdateShipping applies a partial update to a shipping rate
// @Summary Update shipping rate
// @Description Fields absent from the body keep their current values
// @Tags Rates
// @Accept json
// @Produce json
// @Param id path int true "Rate ID"
// @Param rate body model.ShippingRate true "Shipping rate data"
// @Success 200 {object} model.ShippingRate
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /rates/shipping/{id} [put]
func (h *RateHandler) UpdateShipping(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	existing, ok := h.rateService.GetShipping(c.Request.Context(), id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "shipping rate not found"})
		return
	}

	rate := *existing
	if err := c.ShouldBindJSON(&rate); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rate.ID = id
	if err := h.rateService.UpdateShipping(c.Request.Context(), &rate); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, rate)
}

// DeleteShipping deletes a shipping rate
// @Summary Delete shipping rate
// @Tags Rates
// @Param id path int true "Rate ID"
// @Success 204
// @Failure 400 {object} map[string]string
// @Router /rates/shipping/{id} [delete]
func (h *RateHandler) DeleteShipping(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	h.rateService.DeleteShipping(c.Request.Context(), id)
	c.JSON(http.StatusNoContent, nil)
}

// ListPickup returns all pickup rates
// @Summary List pickup rates
// @Tags Rates
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /rates/pickup [get]
func (h *RateHandler) ListPickup(c *gin.Context) {
	rates := h.rateService.ListPickup(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"data":  rates,
		"total": len(rates),
	})
}

// CreatePickup creates a new pickup rate
// @Summary Create pickup rate
// @Tags Rates
// @Accept json
// @Produce json
// @Param rate body model.PickupRate true "Pickup rate data"
// @Success 201 {object} model.PickupRate
// @Failure 400 {object} map[string]string
// @Router /rates/pickup [post]
func (h *RateHandler) CreatePickup(c *gin.Context) {
	var rate model.PickupRate
	if err := c.ShouldBindJSON(&rate); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.rateService.CreatePickup(c.Request.Context(), &rate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, created)
}

// UpdatePickup applies a partial update to a pickup rate
// @Summary Update pickup rate
// @Description Fields absent from the body keep their current values
// @Tags Rates
// @Accept json
// @Produce json
// @Param id path int true "Rate ID"
// @Param rate body model.PickupRate true "Pickup rate data"
// @Success 200 {object} model.PickupRate
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /rates/pickup/{id} [put]
func (h *RateHandler) UpdatePickup(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	existing, ok := h.rateService.GetPickup(c.Request.Context(), id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "pickup rate not found"})
		return
	}

	rate := *existing
	if err := c.ShouldBindJSON(&rate); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rate.ID = id
	if err := h.rateService.UpdatePickup(c.Request.Context(), &rate); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, rate)
}

// DeletePickup deletes a pickup rate
// @Summary Delete pickup rate
// @Tags Rates
// @Param id path int true "Rate ID"
// @Success 204
// @Failure 400 {object} map[string]string
// @Router /rates/pickup/{id} [delete]
func (h *RateHandler) DeletePickup(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	h.rateService.DeletePickup(c.Request.Context(), id)
	c.JSON(http.StatusNoContent, nil)
}

// ratePreviewRequest is the quoting input: the parcels to price.
type ratePreviewRequest struct {
	Packages []model.Package `json:"packages"`
}

// Preview quotes a shipment before it is booked
// @Summary Preview shipping cost
// @Description Computes billable weight and matches it against the configured shipping rates
// @Tags Rates
// @Accept json
// @Produce json
// @Param request body ratePreviewRequest true "Packages to quote"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Router /rates/preview [post]
func (h *RateHandler) Preview(c *gin.Context) {
	var req ratePreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	totals := weight.ShipmentTotals(req.Packages, h.divisor)
	rates := h.rateService.ListShipping(c.Request.Context())
	matched := weight.MatchRate(rates, totals.Taxed)

	resp := gin.H{
		"totals":  totals,
		"matched": matched != nil,
	}
	if matched != nil {
		resp["rate"] = matched
		resp["estimated_cost"] = matched.Rate + matched.Insurance
	}
	c.JSON(http.StatusOK, resp)
}

// ExportShipping downloads shipping rates as CSV (default) or XLSX.
func (h *RateHandler) ExportShipping(c *gin.Context) {
	rates := h.rateService.ListShipping(c.Request.Context())

	rows := make([]csvcodec.Row, 0, len(rates))
	for _, r := range rates {
		rows = append(rows, csvcodec.Row{
			"id":          strconv.FormatInt(r.ID, 10),
			"name":        r.Name,
			"type":        r.Type,
			"min_weight":  strconv.FormatFloat(r.MinWeight, 'f', -1, 64),
			"max_weight":  strconv.FormatFloat(r.MaxWeight, 'f', -1, 64),
			"rate":        strconv.FormatFloat(r.Rate, 'f', -1, 64),
			"insurance":   strconv.FormatFloat(r.Insurance, 'f', -1, 64),
			"description": r.Description,
		})
	}

	if c.DefaultQuery("format", "csv") == "xlsx" {
		writeXLSXExport(c, "shipping_rates.xlsx", "Shipping rates", rows, shippingRateExportHeaders)
		return
	}
	writeCSVExport(c, "shipping_rates.csv", rows, shippingRateExportHeaders)
}

// ExportPickup downloads pickup rates as CSV (default) or XLSX.
func (h *RateHandler) ExportPickup(c *gin.Context) {
	rates := h.rateService.ListPickup(c.Request.Context())

	rows := make([]csvcodec.Row, 0, len(rates))
	for _, r := range rates {
		rows = append(rows, csvcodec.Row{
			"id":          strconv.FormatInt(r.ID, 10),
			"zone":        r.Zone,
			"min_weight":  strconv.FormatFloat(r.MinWeight, 'f', -1, 64),
			"max_weight":  strconv.FormatFloat(r.MaxWeight, 'f', -1, 64),
			"rate":        strconv.FormatFloat(r.Rate, 'f', -1, 64),
			"description": r.Description,
		})
	}

	if c.DefaultQuery("format", "csv") == "xlsx" {
		writeXLSXExport(c, "pickup_rates.xlsx", "Pickup rates", rows, pickupRateExportHeaders)
		return
	}
	writeCSVExport(c, "pickup_rates.csv", rows, pickupRateExportHeaders)
}
