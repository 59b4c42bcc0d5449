package service

import (
	"context"
	"fmt"
	"strings"

	"parceldesk/api/internal/model"
	"parceldesk/api/internal/store"
)

// UserService handles console user account records.
type UserService struct {
	coord *store.Coordinator[*model.User]
}

// NewUserService creates a new user service.
func NewUserService(coord *store.Coordinator[*model.User]) *UserService {
	return &UserService{coord: coord}
}

// List returns all users.
func (s *UserService) List(ctx context.Context) []*model.User {
	return s.coord.List(ctx)
}

// Get returns one user.
func (s *UserService) Get(ctx context.Context, id int64) (*model.User, bool) {
	return s.coord.Get(ctx, id)
}

// Create validates and stores a new user. An empty status defaults to
// active.
func (s *UserService) Create(ctx context.Context, user *model.User) (*model.User, error) {
	if user.Status == "" {
		user.Status = model.UserStatusActive
	}
	if err := validateUser(user); err != nil {
		return nil, err
	}
	return s.coord.Create(ctx, user), nil
}

// Update validates and applies the record optimistically.
func (s *UserService) Update(ctx context.Context, user *model.User) error {
	if err := validateUser(user); err != nil {
		return err
	}
	s.coord.Update(ctx, user)
	return nil
}

// Delete removes a user.
func (s *UserService) Delete(ctx context.Context, id int64) {
	s.coord.Delete(ctx, id)
}

func validateUser(user *model.User) error {
	if strings.TrimSpace(user.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if strings.TrimSpace(user.Email) == "" {
		return fmt.Errorf("email is required")
	}
	if !model.ValidRoles[user.Role] {
		return fmt.Errorf("role must be one of: admin, manager, agent")
	}
	if !model.ValidUserStatuses[user.Status] {
		return fmt.Errorf("status must be one of: active, inactive")
	}
	return nil
}
