package service

import (
	"context"
	"fmt"

	"roombook-client/internal/model"
)

// DefaultUserID is assigned when the backend omits the user id.
const DefaultUserID int64 = 1

// authResponse is the body returned by /auth/login and /auth/register.
type authResponse struct {
	Token    string     `json:"token"`
	Username string     `json:"username"`
	Role     model.Role `json:"role"`
	ID       *int64     `json:"id,omitempty"`
	Email    string     `json:"email,omitempty"`
}

func (r authResponse) result() model.AuthResult {
	id := DefaultUserID
	if r.ID != nil {
		id = *r.ID
	}
	email := r.Email
	if email == "" {
		email = r.Username + "@example.com"
	}
	return model.AuthResult{
		User: model.User{
			ID:       id,
			Username: r.Username,
			Email:    email,
			Role:     r.Role,
		},
		Token: r.Token,
	}
}

// AuthService talks to /auth.
type AuthService struct {
	api Requester
}

// NewAuthService creates an AuthService.
func NewAuthService(api Requester) *AuthService {
	return &AuthService{api: api}
}

// Login exchanges credentials for a token.
func (s *AuthService) Login(ctx context.Context, in model.LoginInput) (model.AuthResult, error) {
	var resp authResponse
	if err := s.api.Post(ctx, "/auth/login", in, &resp); err != nil {
		return model.AuthResult{}, err
	}
	if resp.Token == "" {
		return model.AuthResult{}, fmt.Errorf("login response did not include a token")
	}
	return resp.result(), nil
}

// Register creates an account and returns its token.
func (s *AuthService) Register(ctx context.Context, in model.RegisterInput) (model.AuthResult, error) {
	var resp authResponse
	if err := s.api.Post(ctx, "/auth/register", in, &resp); err != nil {
		return model.AuthResult{}, err
	}
	if resp.Token == "" {
		return model.AuthResult{}, fmt.Errorf("register response did not include a token")
	}
	return resp.result(), nil
}
