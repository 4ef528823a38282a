package context

import "context"

type contextKey int

const emailKey contextKey = iota

// Manager carries the authenticated admin email through request contexts.
type Manager struct{}

// NewManager creates a new context manager instance.
func NewManager() *Manager {
	return &Manager{}
}

// SetEmailToContext returns a child context carrying the admin email.
func (m *Manager) SetEmailToContext(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, emailKey, email)
}

// GetEmailFromContext retrieves the admin email set by the authentication
// middleware. The boolean reports whether one was present.
func (m *Manager) GetEmailFromContext(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(emailKey).(string)
	if !ok || email == "" {
		return "", false
	}
	return email, true
}
