package mocks

import "github.com/stretchr/testify/mock"

// SessionMinter is a testify mock for model.SessionMinter.
type SessionMinter struct {
	mock.Mock
}

func (m *SessionMinter) Mint(email string) (string, error) {
	args := m.Called(email)
	return args.String(0), args.Error(1)
}

func (m *SessionMinter) Verify(credential string) (string, error) {
	args := m.Called(credential)
	return args.String(0), args.Error(1)
}
