// Package weight computes billable shipment weight: carriers charge the
// greater of actual and volumetric (dimensional) weight.
package weight

import (
	"math"

	"parceldesk/api/internal/model"
)

// DefaultDivisor is the standard air-freight volumetric divisor.
const DefaultDivisor = 5000

// Totals are the billable weights of a shipment, in kilograms.
type Totals struct {
	Actual     float64 `json:"actual_weight_kg"`
	Volumetric float64 `json:"volumetric_weight_kg"`
	Taxed      float64 `json:"taxed_weight_kg"`
}

// Volumetric computes dimensional weight in kg from centimeter
// dimensions: (L × W × H) / divisor, rounded to 3 decimals. A
// non-positive divisor falls back to DefaultDivisor.
func Volumetric(lengthCm, widthCm, heightCm, divisor float64) float64 {
	if divisor <= 0 {
		divisor = DefaultDivisor
	}
	return round3(lengthCm * widthCm * heightCm / divisor)
}

// ShipmentTotals sums package weights. Quantity is clamped to a minimum
// of 1, missing dimensions contribute zero, and each total is rounded
// to 3 decimals after summing. An empty package list yields all zeros.
func ShipmentTotals(packages []model.Package, divisor float64) Totals {
	var actual, volumetric float64
	for _, p := range packages {
		qty := p.Quantity
		if qty < 1 {
			qty = 1
		}
		actual += p.WeightKg * float64(qty)
		volumetric += Volumetric(p.LengthCm, p.WidthCm, p.HeightCm, divisor) * float64(qty)
	}

	return Totals{
		Actual:     round3(actual),
		Volumetric: round3(volumetric),
		Taxed:      round3(math.Max(actual, volumetric)),
	}
}

// MatchRate returns the shipping rate applicable to a taxed weight: the
// first weight-bounded rate whose range contains it, else the first
// flat rate (flat rates ignore the stored bounds when charging).
func MatchRate(rates []*model.ShippingRate, taxedKg float64) *model.ShippingRate {
	var flat *model.ShippingRate
	for _, r := range rates {
		switch r.Type {
		case model.RateTypeWeight:
			if taxedKg >= r.MinWeight && taxedKg <= r.MaxWeight {
				return r
			}
		case model.RateTypeFlat:
			if flat == nil {
				flat = r
			}
		}
	}
	return flat
}

// round3 rounds half away from zero at the third decimal, matching
// fixed-point decimal formatting.
func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
