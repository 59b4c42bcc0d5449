package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"parceldesk/api/internal/model"
	"parceldesk/api/internal/store"
	"parceldesk/api/internal/weight"
)

// ShipmentHandler serves the read-only shipment list and the weight
// calculator. Shipments are owned by the upstream parcel service; the
// console never creates or edits them.
type ShipmentHandler struct {
	shipments *store.Coordinator[*model.Shipment]
	divisor   float64
}

// NewShipmentHandler creates a new shipment handler.
func NewShipmentHandler(shipments *store.Coordinator[*model.Shipment], divisor float64) *ShipmentHandler {
	return &ShipmentHandler{shipments: shipments, divisor: divisor}
}

// RegisterRoutes registers shipment routes.
func (h *ShipmentHandler) RegisterRoutes(r *gin.RouterGroup) {
	shipments := r.Group("/shipments")
	{
		shipments.GET("", h.List)
		shipments.POST("/weights", h.Weights)
		shipments.GET("/:id", h.Get)
	}
}

// List returns all shipments
// @Summary List shipments
// @Tags Shipments
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /shipments [get]
func (h *ShipmentHandler) List(c *gin.Context) {
	shipments := h.shipments.List(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"data":  shipments,
		"total": len(shipments),
	})
}

// Get returns a single shipment
// @Summary Get shipment
// @Tags Shipments
// @Produce json
// @Param id path int true "Shipment ID"
// @Success 200 {object} model.Shipment
// @Failure 404 {object} map[string]string
// @Router /shipments/{id} [get]
func (h *ShipmentHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	sh, ok := h.shipments.Get(c.Request.Context(), id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "shipment not found"})
		return
	}
	c.JSON(http.StatusOK, sh)
}

// weightsRequest is the weight calculator input.
type weightsRequest struct {
	Packages []model.Package `json:"packages"`
}

// Weights computes billable weight for a set of packages
// @Summary Compute shipment weights
// @Description Returns actual, volumetric and taxed weight; taxed is the greater of the two
// @Tags Shipments
// @Accept json
// @Produce json
// @Param request body weightsRequest true "Packages"
// @Success 200 {object} weight.Totals
// @Failure 400 {object} map[string]string
// @Router /shipments/weights [post]
func (h *ShipmentHandler) Weights(c *gin.Context) {
	var req weightsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, weight.ShipmentTotals(req.Packages, h.divisor))
}
