package service

import (
	"context"

	"parceldesk/api/internal/model"
	"parceldesk/api/internal/store"
)

// invoiceDueDays is the operator's payment term.
const invoiceDueDays = 30

// InvoiceService derives invoices from shipments on every view. There
// is no invoice storage: the shipment is the source of truth and the
// invoice is a pure projection of it.
type InvoiceService struct {
	shipments *store.Coordinator[*model.Shipment]
}

// NewInvoiceService creates a new invoice service.
func NewInvoiceService(shipments *store.Coordinator[*model.Shipment]) *InvoiceService {
	return &InvoiceService{shipments: shipments}
}

// List derives one invoice per shipment.
func (s *InvoiceService) List(ctx context.Context) []model.Invoice {
	shipments := s.shipments.List(ctx)
	invoices := make([]model.Invoice, 0, len(shipments))
	for _, sh := range shipments {
		invoices = append(invoices, FromShipment(sh))
	}
	return invoices
}

// Get derives the invoice for one shipment.
func (s *InvoiceService) Get(ctx context.Context, id int64) (model.Invoice, bool) {
	sh, ok := s.shipments.Get(ctx, id)
	if !ok {
		return model.Invoice{}, false
	}
	return FromShipment(sh), true
}

// FromShipment computes the invoice projection of a shipment: the
// invoice id is the shipment id, the amount is the total freight and
// the due date is the issue date plus the payment term.
func FromShipment(sh *model.Shipment) model.Invoice {
	return model.Invoice{
		ID:            sh.ID,
		InvoiceNumber: model.InvoiceNumber(sh.ID),
		Amount:        sh.TotalFreight,
		Status:        invoiceStatus(sh.Status),
		IssueDate:     sh.CreatedAt,
		DueDate:       sh.CreatedAt.AddDate(0, 0, invoiceDueDays),
	}
}

func invoiceStatus(shipmentStatus string) string {
	switch shipmentStatus {
	case model.ShipmentStatusDelivered:
		return model.InvoiceStatusPaid
	case model.ShipmentStatusCancelled:
		return model.InvoiceStatusVoid
	default:
		return model.InvoiceStatusPending
	}
}
