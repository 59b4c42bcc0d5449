package weight

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"parceldesk/api/internal/model"
)

func TestVolumetric(t *testing.T) {
	assert.Equal(t, 0.2, Volumetric(10, 10, 10, 5000))
	assert.Equal(t, 12.0, Volumetric(50, 40, 30, 5000))
}

func TestVolumetricZeroDimensions(t *testing.T) {
	assert.Equal(t, 0.0, Volumetric(0, 40, 30, 5000))
}

func TestVolumetricDefaultDivisor(t *testing.T) {
	// Non-positive divisors fall back to the standard 5000.
	assert.Equal(t, 12.0, Volumetric(50, 40, 30, 0))
	assert.Equal(t, 12.0, Volumetric(50, 40, 30, -1))
}

func TestVolumetricRounding(t *testing.T) {
	// 10*10*11/5000 = 0.22; 7*7*7/5000 = 0.0686 -> 0.069
	assert.Equal(t, 0.22, Volumetric(10, 10, 11, 5000))
	assert.Equal(t, 0.069, Volumetric(7, 7, 7, 5000))
}

func TestShipmentTotals(t *testing.T) {
	packages := []model.Package{
		{WeightKg: 2, LengthCm: 10, WidthCm: 10, HeightCm: 10, Quantity: 3},
	}

	totals := ShipmentTotals(packages, 5000)

	assert.Equal(t, 6.0, totals.Actual)
	assert.Equal(t, 0.6, totals.Volumetric)
	assert.Equal(t, 6.0, totals.Taxed)
}

func TestShipmentTotalsVolumetricWins(t *testing.T) {
	packages := []model.Package{
		{WeightKg: 1, LengthCm: 50, WidthCm: 40, HeightCm: 30, Quantity: 1},
	}

	totals := ShipmentTotals(packages, 5000)

	assert.Equal(t, 1.0, totals.Actual)
	assert.Equal(t, 12.0, totals.Volumetric)
	assert.Equal(t, 12.0, totals.Taxed)
}

func TestShipmentTotalsQuantityClamped(t *testing.T) {
	// Zero and negative quantities bill as one parcel.
	packages := []model.Package{
		{WeightKg: 5, Quantity: 0},
		{WeightKg: 3, Quantity: -2},
	}

	totals := ShipmentTotals(packages, 5000)

	assert.Equal(t, 8.0, totals.Actual)
	assert.Equal(t, 0.0, totals.Volumetric)
	assert.Equal(t, 8.0, totals.Taxed)
}

func TestShipmentTotalsEmpty(t *testing.T) {
	totals := ShipmentTotals(nil, 5000)

	assert.Equal(t, Totals{}, totals)
}

func TestShipmentTotalsMissingDimensions(t *testing.T) {
	packages := []model.Package{
		{WeightKg: 1.5, Quantity: 2},
	}

	totals := ShipmentTotals(packages, 5000)

	assert.Equal(t, 3.0, totals.Actual)
	assert.Equal(t, 0.0, totals.Volumetric)
	assert.Equal(t, 3.0, totals.Taxed)
}

func TestMatchRateWeightBound(t *testing.T) {
	rates := []*model.ShippingRate{
		{ID: 1, Name: "Flat", Type: model.RateTypeFlat, Rate: 100},
		{ID: 2, Name: "Light", Type: model.RateTypeWeight, MinWeight: 0, MaxWeight: 5, Rate: 50},
		{ID: 3, Name: "Heavy", Type: model.RateTypeWeight, MinWeight: 5, MaxWeight: 50, Rate: 200},
	}

	got := MatchRate(rates, 3.2)
	assert.Equal(t, int64(2), got.ID)

	got = MatchRate(rates, 12.0)
	assert.Equal(t, int64(3), got.ID)
}

func TestMatchRateBoundaryInclusive(t *testing.T) {
	rates := []*model.ShippingRate{
		{ID: 1, Type: model.RateTypeWeight, MinWeight: 0, MaxWeight: 5, Rate: 50},
	}

	assert.NotNil(t, MatchRate(rates, 5.0))
	assert.Nil(t, MatchRate(rates, 5.001))
}

func TestMatchRateFlatFallback(t *testing.T) {
	rates := []*model.ShippingRate{
		{ID: 1, Type: model.RateTypeWeight, MinWeight: 0, MaxWeight: 5, Rate: 50},
		{ID: 2, Type: model.RateTypeFlat, Rate: 100},
		{ID: 3, Type: model.RateTypeFlat, Rate: 300},
	}

	got := MatchRate(rates, 99)
	assert.Equal(t, int64(2), got.ID)
}

func TestMatchRateNoMatch(t *testing.T) {
	rates := []*model.ShippingRate{
		{ID: 1, Type: model.RateTypeWeight, MinWeight: 0, MaxWeight: 5, Rate: 50},
	}

	assert.Nil(t, MatchRate(rates, 10))
	assert.Nil(t, MatchRate(nil, 1))
}
