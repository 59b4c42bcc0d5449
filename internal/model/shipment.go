package model

import (
	"fmt"
	"time"
)

const (
	ShipmentStatusPending   = "pending"
	ShipmentStatusInTransit = "in_transit"
	ShipmentStatusDelivered = "delivered"
	ShipmentStatusCancelled = "cancelled"

	InvoiceStatusPending = "pending"
	InvoiceStatusPaid    = "paid"
	InvoiceStatusVoid    = "void"
)

// Package is one physical parcel inside a shipment. Dimensions are in
// centimeters, weight in kilograms. Missing fields decode to zero and
// are billed as zero, never rejected.
type Package struct {
	WeightKg float64 `json:"weight_kg"`
	LengthCm float64 `json:"length_cm"`
	WidthCm  float64 `json:"width_cm"`
	HeightCm float64 `json:"height_cm"`
	Quantity int     `json:"quantity"`
}

// Shipment is read-only in the console; it is owned by the upstream
// parcel service and only listed here to derive invoices and previews.
type Shipment struct {
	ID             int64     `json:"id"`
	TrackingNumber string    `json:"tracking_number"`
	Status         string    `json:"status"`
	TotalFreight   float64   `json:"total_freight"`
	Packages       []Package `json:"packages"`
	CreatedAt      time.Time `json:"created_at"`
}

func (s *Shipment) RecordID() int64      { return s.ID }
func (s *Shipment) SetRecordID(id int64) { s.ID = id }

// Invoice is derived from a Shipment each time it is viewed. It is
// never persisted or edited independently.
type Invoice struct {
	ID            int64     `json:"id"`
	InvoiceNumber string    `json:"invoice_number"`
	Amount        float64   `json:"amount"`
	Status        string    `json:"status"`
	IssueDate     time.Time `json:"issue_date"`
	DueDate       time.Time `json:"due_date"`
}

// InvoiceNumber formats a shipment id as a zero-padded invoice number.
func InvoiceNumber(shipmentID int64) string {
	return fmt.Sprintf("INV-%06d", shipmentID)
}
