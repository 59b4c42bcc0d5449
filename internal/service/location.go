package service

import (
	"context"
	"fmt"
	"strings"

	"parceldesk/api/internal/model"
	"parceldesk/api/internal/store"
)

// LocationService handles location business logic on top of the sync
// coordinator: semantic validation and slug derivation happen here, the
// coordinator only moves records.
type LocationService struct {
	coord *store.Coordinator[*model.Location]
}

// NewLocationService creates a new location service.
func NewLocationService(coord *store.Coordinator[*model.Location]) *LocationService {
	return &LocationService{coord: coord}
}

// List returns all locations, degraded to the cached snapshot when the
// upstream is down.
func (s *LocationService) List(ctx context.Context) []*model.Location {
	return s.coord.List(ctx)
}

// Get returns one location.
func (s *LocationService) Get(ctx context.Context, id int64) (*model.Location, bool) {
	return s.coord.Get(ctx, id)
}

// Create validates and stores a new location, deriving the slug from
// the name when none is supplied.
func (s *LocationService) Create(ctx context.Context, loc *model.Location) (*model.Location, error) {
	if err := validateLocation(loc); err != nil {
		return nil, err
	}
	if loc.Slug == "" {
		loc.Slug = Slugify(loc.Name)
	}
	return s.coord.Create(ctx, loc), nil
}

// Update validates and applies the record optimistically. The slug is
// only derived when missing; once assigned it stays stable.
func (s *LocationService) Update(ctx context.Context, loc *model.Location) error {
	if err := validateLocation(loc); err != nil {
		return err
	}
	if loc.Slug == "" {
		loc.Slug = Slugify(loc.Name)
	}
	s.coord.Update(ctx, loc)
	return nil
}

// Delete removes a location.
func (s *LocationService) Delete(ctx context.Context, id int64) {
	s.coord.Delete(ctx, id)
}

func validateLocation(loc *model.Location) error {
	if strings.TrimSpace(loc.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if strings.TrimSpace(loc.Country) == "" {
		return fmt.Errorf("country is required")
	}
	return nil
}

// Slugify lowercases a name and joins its whitespace-separated parts
// with hyphens.
func Slugify(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "-")
}
