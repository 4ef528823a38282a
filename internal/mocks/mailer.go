package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// Mailer is a testify mock for model.Mailer.
type Mailer struct {
	mock.Mock
}

func (m *Mailer) Send(ctx context.Context, to, subject, html string) error {
	args := m.Called(ctx, to, subject, html)
	return args.Error(0)
}
