package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"net"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/mannepanne/hultberg-admin/internal/api/http/middleware"
	"github.com/mannepanne/hultberg-admin/internal/logger"
	"github.com/mannepanne/hultberg-admin/internal/model"
)

// AuthService defines the login operations backing the auth endpoints.
type AuthService interface {
	RequestLogin(ctx context.Context, email, identity, origin string) error
	Peek(ctx context.Context, id string) bool
	VerifyLogin(ctx context.Context, id string) (string, error)
}

// Auth handles the magic-link login endpoints.
type Auth struct {
	service    AuthService
	logger     *logger.Logger
	origin     string
	sessionTTL time.Duration
}

// NewAuth creates a new Auth handler.
func NewAuth(service AuthService, origin string, sessionTTL time.Duration, logger *logger.Logger) *Auth {
	return &Auth{service: service, origin: origin, sessionTTL: sessionTTL, logger: logger}
}

// SendMagicLink handles POST /admin/api/send-magic-link. The response is
// the same whether or not the address belongs to the admin, so the
// endpoint cannot be used to probe for valid addresses.
func (h *Auth) SendMagicLink(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	email := strings.TrimSpace(req.Email)
	if email == "" {
		writeError(w, http.StatusBadRequest, "Email address is required")
		return
	}
	if _, err := mail.ParseAddress(email); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid email address")
		return
	}

	if err := h.service.RequestLogin(r.Context(), email, clientIP(r), h.origin); err != nil {
		if errors.Is(err, model.ErrRateLimited) {
			writeError(w, http.StatusTooManyRequests, "Too many requests. Please try again later.")
			return
		}
		handleError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// VerifyTokenPage handles GET /admin/api/verify-token. It never consumes
// the token: email security scanners follow links with GET, so the page
// only checks that the token is still live and asks for an explicit POST
// to complete the login.
func (h *Auth) VerifyTokenPage(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Redirect(w, r, "/admin?error=invalid-link", http.StatusFound)
		return
	}

	if !h.service.Peek(r.Context(), token) {
		http.Redirect(w, r, "/admin?error=link-expired", http.StatusFound)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, confirmLoginHTML, html.EscapeString(token))
}

// VerifyToken handles POST /admin/api/verify-token: consume the token,
// mint a session, set the cookie and send the browser to the dashboard.
func (h *Auth) VerifyToken(w http.ResponseWriter, r *http.Request) {
	token := r.FormValue("token")
	if token == "" {
		http.Redirect(w, r, "/admin?error=invalid-link", http.StatusFound)
		return
	}

	credential, err := h.service.VerifyLogin(r.Context(), token)
	if err != nil {
		h.logger.Info("Auth handler: login verification failed", "error", err.Error())
		http.Redirect(w, r, "/admin?error=link-expired", http.StatusFound)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.CookieName,
		Value:    credential,
		Path:     "/admin",
		MaxAge:   int(h.sessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})
	http.Redirect(w, r, "/admin/dashboard", http.StatusFound)
}

// Logout handles POST /admin/api/logout.
func (h *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.CookieName,
		Value:    "",
		Path:     "/admin",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})
	http.Redirect(w, r, "/admin", http.StatusFound)
}

// clientIP prefers the first forwarded address, falling back to the
// connection's remote address.
func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return "unknown"
	}
	return host
}

const confirmLoginHTML = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>Confirm login</title>
  <style>
    body { font-family: -apple-system, sans-serif; background: #f8f9fa; display: flex; justify-content: center; padding-top: 15vh; }
    .card { background: white; border-radius: 8px; padding: 40px; max-width: 400px; text-align: center; box-shadow: 0 1px 3px rgba(0,0,0,0.1); }
    button { background: #0d6efd; color: white; border: none; border-radius: 6px; padding: 12px 32px; font-size: 1em; cursor: pointer; }
  </style>
</head>
<body>
  <div class="card">
    <h1>Confirm login</h1>
    <p>Click the button below to sign in to the admin area.</p>
    <form method="POST" action="/admin/api/verify-token">
      <input type="hidden" name="token" value="%s">
      <button type="submit">Sign in</button>
    </form>
  </div>
</body>
</html>
`
