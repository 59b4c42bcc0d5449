package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parceldesk/api/internal/model"
)

func TestZoneCreateDerivesSlug(t *testing.T) {
	svc := NewZoneService(newStubCoordinator("zones", &stubRemote[*model.Zone]{}))

	created, err := svc.Create(context.Background(), &model.Zone{Name: "Dhaka Metro"})

	require.NoError(t, err)
	assert.Equal(t, "dhaka-metro", created.Slug)
	assert.Equal(t, int64(1), created.ID)
}

func TestZoneCreateValidation(t *testing.T) {
	svc := NewZoneService(newStubCoordinator("zones", &stubRemote[*model.Zone]{}))

	_, err := svc.Create(context.Background(), &model.Zone{Name: "   "})
	assert.EqualError(t, err, "name is required")
}

func TestZoneLocationsAreWeakReferences(t *testing.T) {
	// Membership is a list of location names; nothing checks them
	// against the locations collection, and a dangling name is kept
	// as-is.
	svc := NewZoneService(newStubCoordinator("zones", &stubRemote[*model.Zone]{}))

	created, err := svc.Create(context.Background(), &model.Zone{
		Name:      "North",
		Locations: []string{"Rangpur", "No Such Location"},
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"Rangpur", "No Such Location"}, []string(created.Locations))
}

func TestZoneUpdateKeepsExplicitSlug(t *testing.T) {
	svc := NewZoneService(newStubCoordinator("zones", &stubRemote[*model.Zone]{}))
	ctx := context.Background()

	created, err := svc.Create(ctx, &model.Zone{Name: "North"})
	require.NoError(t, err)

	created.Name = "North Extended"
	require.NoError(t, svc.Update(ctx, created))
	assert.Equal(t, "north", created.Slug)
}
