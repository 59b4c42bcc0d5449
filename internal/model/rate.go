package model

const (
	RateTypeFlat   = "flat"
	RateTypeWeight = "weight"
)

// ValidRateTypes are the accepted shipping rate types.
var ValidRateTypes = map[string]bool{
	RateTypeFlat:   true,
	RateTypeWeight: true,
}

// ShippingRate prices a shipment. A "weight" rate applies only inside
// [MinWeight, MaxWeight]; a "flat" rate charges regardless of weight but
// the bounds are stored anyway.
type ShippingRate struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Type        string  `json:"type"` // flat, weight
	MinWeight   float64 `json:"min_weight"`
	MaxWeight   float64 `json:"max_weight"`
	Rate        float64 `json:"rate"`
	Insurance   float64 `json:"insurance"`
	Description string  `json:"description"`
}

func (r *ShippingRate) RecordID() int64      { return r.ID }
func (r *ShippingRate) SetRecordID(id int64) { r.ID = id }

// PickupRate prices a pickup inside a zone. Zone is a weak reference to
// Zone.Name, same convention as Zone.Locations.
type PickupRate struct {
	ID          int64   `json:"id"`
	Zone        string  `json:"zone"`
	MinWeight   float64 `json:"min_weight"`
	MaxWeight   float64 `json:"max_weight"`
	Rate        float64 `json:"rate"`
	Description string  `json:"description"`
}

func (r *PickupRate) RecordID() int64      { return r.ID }
func (r *PickupRate) SetRecordID(id int64) { r.ID = id }
