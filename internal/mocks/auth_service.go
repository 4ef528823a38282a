package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// AuthService is a testify mock for handler.AuthService.
type AuthService struct {
	mock.Mock
}

func (m *AuthService) RequestLogin(ctx context.Context, email, identity, origin string) error {
	args := m.Called(ctx, email, identity, origin)
	return args.Error(0)
}

func (m *AuthService) Peek(ctx context.Context, id string) bool {
	args := m.Called(ctx, id)
	return args.Bool(0)
}

func (m *AuthService) VerifyLogin(ctx context.Context, id string) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}
