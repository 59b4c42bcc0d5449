package service

import (
	"context"
	"fmt"
	"strings"

	"parceldesk/api/internal/model"
	"parceldesk/api/internal/store"
)

// ZoneService handles zone business logic. Zone membership is a list of
// location names, kept as plain strings: there is deliberately no
// referential check against the locations collection.
type ZoneService struct {
	coord *store.Coordinator[*model.Zone]
}

// NewZoneService creates a new zone service.
func NewZoneService(coord *store.Coordinator[*model.Zone]) *ZoneService {
	return &ZoneService{coord: coord}
}

// List returns all zones.
func (s *ZoneService) List(ctx context.Context) []*model.Zone {
	return s.coord.List(ctx)
}

// Get returns one zone.
func (s *ZoneService) Get(ctx context.Context, id int64) (*model.Zone, bool) {
	return s.coord.Get(ctx, id)
}

// Create validates and stores a new zone.
func (s *ZoneService) Create(ctx context.Context, zone *model.Zone) (*model.Zone, error) {
	if err := validateZone(zone); err != nil {
		return nil, err
	}
	if zone.Slug == "" {
		zone.Slug = Slugify(zone.Name)
	}
	return s.coord.Create(ctx, zone), nil
}

// Update validates and applies the record optimistically.
func (s *ZoneService) Update(ctx context.Context, zone *model.Zone) error {
	if err := validateZone(zone); err != nil {
		return err
	}
	if zone.Slug == "" {
		zone.Slug = Slugify(zone.Name)
	}
	s.coord.Update(ctx, zone)
	return nil
}

// Delete removes a zone.
func (s *ZoneService) Delete(ctx context.Context, id int64) {
	s.coord.Delete(ctx, id)
}

func validateZone(zone *model.Zone) error {
	if strings.TrimSpace(zone.Name) == "" {
		return fmt.Errorf("name is required")
	}
	return nil
}
