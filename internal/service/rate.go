package service

import (
	"context"
	"fmt"
	"strings"

	"parceldesk/api/internal/model"
	"parceldesk/api/internal/store"
)

// RateService handles shipping and pickup rate business logic.
type RateService struct {
	shipping *store.Coordinator[*model.ShippingRate]
	pickup   *store.Coordinator[*model.PickupRate]
}

// NewRateService creates a new rate service.
func NewRateService(shipping *store.Coordinator[*model.ShippingRate], pickup *store.Coordinator[*model.PickupRate]) *RateService {
	return &RateService{shipping: shipping, pickup: pickup}
}

// ListShipping returns all shipping rates.
func (s *RateService) ListShipping(ctx context.Context) []*model.ShippingRate {
	return s.shipping.List(ctx)
}

// GetShipping returns one shipping rate.
func (s *RateService) GetShipping(ctx context.Context, id int64) (*model.ShippingRate, bool) {
	return s.shipping.Get(ctx, id)
}

// CreateShipping validates and stores a new shipping rate.
func (s *RateService) CreateShipping(ctx context.Context, rate *model.ShippingRate) (*model.ShippingRate, error) {
	if err := validateShippingRate(rate); err != nil {
		return nil, err
	}
	return s.shipping.Create(ctx, rate), nil
}

// UpdateShipping validates and applies the record optimistically.
func (s *RateService) UpdateShipping(ctx context.Context, rate *model.ShippingRate) error {
	if err := validateShippingRate(rate); err != nil {
		return err
	}
	s.shipping.Update(ctx, rate)
	return nil
}

// DeleteShipping removes a shipping rate.
func (s *RateService) DeleteShipping(ctx context.Context, id int64) {
	s.shipping.Delete(ctx, id)
}

// ListPickup returns all pickup rates.
func (s *RateService) ListPickup(ctx context.Context) []*model.PickupRate {
	return s.pickup.List(ctx)
}

// GetPickup returns one pickup rate.
func (s *RateService) GetPickup(ctx context.Context, id int64) (*model.PickupRate, bool) {
	return s.pickup.Get(ctx, id)
}

// CreatePickup validates and stores a new pickup rate. The zone field
// is a weak name reference and is not checked against the zones
// collection.
func (s *RateService) CreatePickup(ctx context.Context, rate *model.PickupRate) (*model.PickupRate, error) {
	if err := validatePickupRate(rate); err != nil {
		return nil, err
	}
	return s.pickup.Create(ctx, rate), nil
}

// UpdatePickup validates and applies the record optimistically.
func (s *RateService) UpdatePickup(ctx context.Context, rate *model.PickupRate) error {
	if err := validatePickupRate(rate); err != nil {
		return err
	}
	s.pickup.Update(ctx, rate)
	return nil
}

// DeletePickup removes a pickup rate.
func (s *RateService) DeletePickup(ctx context.Context, id int64) {
	s.pickup.Delete(ctx, id)
}

func validateShippingRate(rate *model.ShippingRate) error {
	if strings.TrimSpace(rate.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if !model.ValidRateTypes[rate.Type] {
		return fmt.Errorf("type must be one of: flat, weight")
	}
	return validateWeightRange(rate.MinWeight, rate.MaxWeight, rate.Rate, rate.Insurance)
}

func validatePickupRate(rate *model.PickupRate) error {
	if strings.TrimSpace(rate.Zone) == "" {
		return fmt.Errorf("zone is required")
	}
	return validateWeightRange(rate.MinWeight, rate.MaxWeight, rate.Rate, 0)
}

func validateWeightRange(minWeight, maxWeight, rate, insurance float64) error {
	if minWeight < 0 || maxWeight < 0 {
		return fmt.Errorf("weights must not be negative")
	}
	if minWeight > maxWeight {
		return fmt.Errorf("min_weight must not exceed max_weight")
	}
	if rate < 0 {
		return fmt.Errorf("rate must not be negative")
	}
	if insurance < 0 {
		return fmt.Errorf("insurance must not be negative")
	}
	return nil
}
