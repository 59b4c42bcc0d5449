package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parceldesk/api/internal/model"
)

func newTestRateService() *RateService {
	return NewRateService(
		newStubCoordinator("shipping-rates", &stubRemote[*model.ShippingRate]{}),
		newStubCoordinator("pickup-rates", &stubRemote[*model.PickupRate]{}),
	)
}

func TestCreateShippingRate(t *testing.T) {
	svc := newTestRateService()

	created, err := svc.CreateShipping(context.Background(), &model.ShippingRate{
		Name: "Standard", Type: model.RateTypeWeight, MinWeight: 0, MaxWeight: 5, Rate: 120,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
}

func TestShippingRateValidation(t *testing.T) {
	svc := newTestRateService()
	ctx := context.Background()

	cases := []struct {
		name string
		rate model.ShippingRate
		want string
	}{
		{"missing name", model.ShippingRate{Type: "flat"}, "name is required"},
		{"bad type", model.ShippingRate{Name: "X", Type: "tiered"}, "type must be one of: flat, weight"},
		{"negative weight", model.ShippingRate{Name: "X", Type: "flat", MinWeight: -1}, "weights must not be negative"},
		{"inverted range", model.ShippingRate{Name: "X", Type: "weight", MinWeight: 10, MaxWeight: 5}, "min_weight must not exceed max_weight"},
		{"negative rate", model.ShippingRate{Name: "X", Type: "flat", Rate: -5}, "rate must not be negative"},
		{"negative insurance", model.ShippingRate{Name: "X", Type: "flat", Insurance: -1}, "insurance must not be negative"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rate := tc.rate
			_, err := svc.CreateShipping(ctx, &rate)
			assert.EqualError(t, err, tc.want)
		})
	}
}

func TestPickupRateValidation(t *testing.T) {
	svc := newTestRateService()
	ctx := context.Background()

	_, err := svc.CreatePickup(ctx, &model.PickupRate{MinWeight: 0, MaxWeight: 5, Rate: 50})
	assert.EqualError(t, err, "zone is required")

	created, err := svc.CreatePickup(ctx, &model.PickupRate{Zone: "Dhaka Metro", MaxWeight: 5, Rate: 50})
	require.NoError(t, err)
	assert.Equal(t, "Dhaka Metro", created.Zone)
}

func TestPickupRateZoneIsWeakReference(t *testing.T) {
	// A zone name that matches nothing still passes; references are by
	// name and never checked against the zones collection.
	svc := newTestRateService()

	_, err := svc.CreatePickup(context.Background(), &model.PickupRate{Zone: "No Such Zone", MaxWeight: 1, Rate: 10})
	assert.NoError(t, err)
}
