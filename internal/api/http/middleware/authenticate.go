package middleware

import (
	"net/http"

	"github.com/mannepanne/hultberg-admin/internal/logger"
	"github.com/mannepanne/hultberg-admin/internal/model"
)

// CookieName is the session cookie set on login and cleared on logout.
const CookieName = "auth_token"

// Authenticate validates session cookies and injects the admin email into
// the request context.
type Authenticate struct {
	minter         model.SessionMinter
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(minter model.SessionMinter, contextManager model.ContextManager, logger *logger.Logger) *Authenticate {
	return &Authenticate{minter: minter, contextManager: contextManager, logger: logger}
}

// Handle extracts the session cookie, verifies it, and passes the request
// on with the admin email in context. Every failure flavor, missing
// cookie, expired session, or bad signature, gets the same response so
// the caller learns nothing about which check failed.
func (m *Authenticate) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(CookieName)
		if err != nil || cookie.Value == "" {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		email, err := m.minter.Verify(cookie.Value)
		if err != nil {
			m.logger.Info("Authenticate middleware: session rejected", "error", err.Error())
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		ctx := m.contextManager.SetEmailToContext(r.Context(), email)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
