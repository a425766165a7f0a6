package api

import (
	"context"
	"net/http"
)

// DefaultRole is sent when a registration does not name one.
const DefaultRole = "user"

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type Registration struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Department string `json:"department,omitempty"`
	Role       string `json:"role"`
}

// User is the authenticated identity as reported by the backend.
type User struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Department *string `json:"department,omitempty"`
	Role       string  `json:"role"`
}

// AuthResponse is returned by login and register.
type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type AuthService struct {
	client *Client
}

func (s *AuthService) Login(ctx context.Context, creds Credentials) (*AuthResponse, error) {
	var out AuthResponse
	if err := s.client.Do(ctx, Request{Method: http.MethodPost, Path: "/auth/login", Body: creds}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *AuthService) Register(ctx context.Context, reg Registration) (*AuthResponse, error) {
	if reg.Role == "" {
		reg.Role = DefaultRole
	}
	var out AuthResponse
	if err := s.client.Do(ctx, Request{Method: http.MethodPost, Path: "/auth/register", Body: reg}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Me validates the stored token and returns its identity.
func (s *AuthService) Me(ctx context.Context) (*User, error) {
	var out User
	if err := s.client.Do(ctx, Request{Method: http.MethodGet, Path: "/auth/me"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
