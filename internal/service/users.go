package service

import (
	"context"

	"roombook-client/internal/model"
)

const usersPath = "/users"

// UserService talks to /users.
type UserService struct {
	api Requester
}

// NewUserService creates a UserService.
func NewUserService(api Requester) *UserService {
	return &UserService{api: api}
}

// List returns every user (admin).
func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	var out []model.User
	if err := s.api.Get(ctx, usersPath, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Get returns one user.
func (s *UserService) Get(ctx context.Context, id int64) (model.User, error) {
	var out model.User
	if err := s.api.Get(ctx, idPath(usersPath, id), nil, &out); err != nil {
		return model.User{}, err
	}
	return out, nil
}
