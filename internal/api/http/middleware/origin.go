package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/mannepanne/hultberg-admin/internal/logger"
)

// SameOrigin rejects state-changing requests whose Origin header does not
// match the configured public origin. Browsers always send Origin on
// cross-site POST and DELETE, so a mismatch or an absent header means the
// request did not come from the admin pages.
type SameOrigin struct {
	origin string
	logger *logger.Logger
}

// NewSameOrigin creates a new SameOrigin middleware instance.
func NewSameOrigin(origin string, logger *logger.Logger) *SameOrigin {
	return &SameOrigin{origin: origin, logger: logger}
}

// Handle passes the request on only when the Origin header matches.
func (m *SameOrigin) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if origin := r.Header.Get("Origin"); origin != m.origin {
			m.logger.Info("SameOrigin middleware: origin rejected",
				"origin", origin, "path", r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "Forbidden"})
			return
		}

		next.ServeHTTP(w, r)
	})
}
