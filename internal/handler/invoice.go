package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"parceldesk/api/internal/csvcodec"
	"parceldesk/api/internal/service"
)

var invoiceExportHeaders = []string{"id", "invoice_number", "amount", "status", "issue_date", "due_date"}

// InvoiceHandler serves derived invoices. There are no create or update
// routes: invoices are read-only projections of shipments.
type InvoiceHandler struct {
	invoiceService *service.InvoiceService
}

// NewInvoiceHandler creates a new invoice handler.
func NewInvoiceHandler(invoiceService *service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

// RegisterRoutes registers invoice routes.
func (h *InvoiceHandler) RegisterRoutes(r *gin.RouterGroup) {
	invoices := r.Group("/invoices")
	{
		invoices.GET("", h.List)
		invoices.GET("/export", h.Export)
		invoices.GET("/:id", h.Get)
	}
}

// List returns all invoices
// @Summary List invoices
// @Description One invoice per shipment, derived on every request
// @Tags Invoices
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /invoices [get]
func (h *InvoiceHandler) List(c *gin.Context) {
	invoices := h.invoiceService.List(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"data":  invoices,
		"total": len(invoices),
	})
}

// Get returns the invoice for one shipment
// @Summary Get invoice
// @Tags Invoices
// @Produce json
// @Param id path int true "Shipment ID"
// @Success 200 {object} model.Invoice
// @Failure 404 {object} map[string]string
// @Router /invoices/{id} [get]
func (h *InvoiceHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	invoice, ok := h.invoiceService.Get(c.Request.Context(), id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "invoice not found"})
		return
	}
	c.JSON(http.StatusOK, invoice)
}

// Export downloads the derived invoices as CSV (default) or XLSX.
func (h *InvoiceHandler) Export(c *gin.Context) {
	invoices := h.invoiceService.List(c.Request.Context())

	rows := make([]csvcodec.Row, 0, len(invoices))
	for _, inv := range invoices {
		rows = append(rows, csvcodec.Row{
			"id":             strconv.FormatInt(inv.ID, 10),
			"invoice_number": inv.InvoiceNumber,
			"amount":         strconv.FormatFloat(inv.Amount, 'f', 2, 64),
			"status":         inv.Status,
			"issue_date":     inv.IssueDate.Format("2006-01-02"),
			"due_date":       inv.DueDate.Format("2006-01-02"),
		})
	}

	if c.DefaultQuery("format", "csv") == "xlsx" {
		writeXLSXExport(c, "invoices.xlsx", "Invoices", rows, invoiceExportHeaders)
		return
	}
	writeCSVExport(c, "invoices.csv", rows, invoiceExportHeaders)
}
