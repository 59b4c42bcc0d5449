package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parceldesk/api/internal/model"
)

func TestUserCreateDefaultsStatusActive(t *testing.T) {
	svc := NewUserService(newStubCoordinator("users", &stubRemote[*model.User]{}))

	created, err := svc.Create(context.Background(), &model.User{
		Name: "Amina", Email: "amina@example.com", Role: model.RoleAgent,
	})

	require.NoError(t, err)
	assert.Equal(t, model.UserStatusActive, created.Status)
}

func TestUserValidation(t *testing.T) {
	svc := NewUserService(newStubCoordinator("users", &stubRemote[*model.User]{}))
	ctx := context.Background()

	_, err := svc.Create(ctx, &model.User{Email: "a@b.c", Role: model.RoleAdmin})
	assert.EqualError(t, err, "name is required")

	_, err = svc.Create(ctx, &model.User{Name: "A", Role: model.RoleAdmin})
	assert.EqualError(t, err, "email is required")

	_, err = svc.Create(ctx, &model.User{Name: "A", Email: "a@b.c", Role: "owner"})
	assert.EqualError(t, err, "role must be one of: admin, manager, agent")

	err = svc.Update(ctx, &model.User{ID: 1, Name: "A", Email: "a@b.c", Role: model.RoleAdmin, Status: "frozen"})
	assert.EqualError(t, err, "status must be one of: active, inactive")
}
