package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mannepanne/hultberg-admin/internal/mocks"
	"github.com/mannepanne/hultberg-admin/internal/model"
	"github.com/mannepanne/hultberg-admin/internal/testutil"
)

func newAuthHandler(service *mocks.AuthService) *Auth {
	return NewAuth(service, "https://hultberg.org", 168*time.Hour, testutil.MakeNoopLogger())
}

func TestAuth_SendMagicLink_Success(t *testing.T) {
	service := &mocks.AuthService{}
	service.On("RequestLogin", mock.Anything, "admin@example.com", mock.Anything, "https://hultberg.org").
		Return(nil)
	h := newAuthHandler(service)

	req := httptest.NewRequest(http.MethodPost, "/admin/api/send-magic-link",
		strings.NewReader(`{"email":"admin@example.com"}`))
	rec := httptest.NewRecorder()

	h.SendMagicLink(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())
	service.AssertExpectations(t)
}

func TestAuth_SendMagicLink_NonAdminLooksIdentical(t *testing.T) {
	service := &mocks.AuthService{}
	service.On("RequestLogin", mock.Anything, "stranger@example.com", mock.Anything, mock.Anything).
		Return(nil)
	h := newAuthHandler(service)

	req := httptest.NewRequest(http.MethodPost, "/admin/api/send-magic-link",
		strings.NewReader(`{"email":"stranger@example.com"}`))
	rec := httptest.NewRecorder()

	h.SendMagicLink(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())
}

func TestAuth_SendMagicLink_BadRequests(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{"malformed json", `{"email"`, "Invalid request body"},
		{"missing email", `{}`, "Email address is required"},
		{"blank email", `{"email":"   "}`, "Email address is required"},
		{"invalid email", `{"email":"not-an-address"}`, "Invalid email address"},
	}

	h := newAuthHandler(&mocks.AuthService{})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/admin/api/send-magic-link",
				strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			h.SendMagicLink(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantMsg)
		})
	}
}

func TestAuth_SendMagicLink_RateLimited(t *testing.T) {
	service := &mocks.AuthService{}
	service.On("RequestLogin", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(model.ErrRateLimited)
	h := newAuthHandler(service)

	req := httptest.NewRequest(http.MethodPost, "/admin/api/send-magic-link",
		strings.NewReader(`{"email":"admin@example.com"}`))
	rec := httptest.NewRecorder()

	h.SendMagicLink(rec, req)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestAuth_SendMagicLink_ForwardedIP(t *testing.T) {
	service := &mocks.AuthService{}
	service.On("RequestLogin", mock.Anything, "admin@example.com", "203.0.113.9", mock.Anything).
		Return(nil)
	h := newAuthHandler(service)

	req := httptest.NewRequest(http.MethodPost, "/admin/api/send-magic-link",
		strings.NewReader(`{"email":"admin@example.com"}`))
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	rec := httptest.NewRecorder()

	h.SendMagicLink(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	service.AssertExpectations(t)
}

func TestAuth_VerifyTokenPage_ShowsConfirmation(t *testing.T) {
	service := &mocks.AuthService{}
	service.On("Peek", mock.Anything, "live-token").Return(true)
	h := newAuthHandler(service)

	req := httptest.NewRequest(http.MethodGet, "/admin/api/verify-token?token=live-token", nil)
	rec := httptest.NewRecorder()

	h.VerifyTokenPage(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), `name="token" value="live-token"`)
	assert.Contains(t, rec.Body.String(), `action="/admin/api/verify-token"`)
}

func TestAuth_VerifyTokenPage_MissingToken(t *testing.T) {
	h := newAuthHandler(&mocks.AuthService{})

	req := httptest.NewRequest(http.MethodGet, "/admin/api/verify-token", nil)
	rec := httptest.NewRecorder()

	h.VerifyTokenPage(rec, req)

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/admin?error=invalid-link", rec.Header().Get("Location"))
}

func TestAuth_VerifyTokenPage_DeadToken(t *testing.T) {
	service := &mocks.AuthService{}
	service.On("Peek", mock.Anything, "dead-token").Return(false)
	h := newAuthHandler(service)

	req := httptest.NewRequest(http.MethodGet, "/admin/api/verify-token?token=dead-token", nil)
	rec := httptest.NewRecorder()

	h.VerifyTokenPage(rec, req)

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/admin?error=link-expired", rec.Header().Get("Location"))
}

func TestAuth_VerifyToken_SetsCookieAndRedirects(t *testing.T) {
	service := &mocks.AuthService{}
	service.On("VerifyLogin", mock.Anything, "live-token").Return("signed.jwt.credential", nil)
	h := newAuthHandler(service)

	req := httptest.NewRequest(http.MethodPost, "/admin/api/verify-token",
		strings.NewReader("token=live-token"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()

	h.VerifyToken(rec, req)

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/admin/dashboard", rec.Header().Get("Location"))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]
	assert.Equal(t, "auth_token", c.Name)
	assert.Equal(t, "signed.jwt.credential", c.Value)
	assert.Equal(t, "/admin", c.Path)
	assert.Equal(t, 604800, c.MaxAge)
	assert.True(t, c.HttpOnly)
	assert.True(t, c.Secure)
	assert.Equal(t, http.SameSiteStrictMode, c.SameSite)
}

func TestAuth_VerifyToken_InvalidToken(t *testing.T) {
	service := &mocks.AuthService{}
	service.On("VerifyLogin", mock.Anything, "spent-token").Return("", model.ErrInvalidToken)
	h := newAuthHandler(service)

	req := httptest.NewRequest(http.MethodPost, "/admin/api/verify-token",
		strings.NewReader("token=spent-token"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()

	h.VerifyToken(rec, req)

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/admin?error=link-expired", rec.Header().Get("Location"))
	assert.Empty(t, rec.Result().Cookies())
}

func TestAuth_Logout_ClearsCookie(t *testing.T) {
	h := newAuthHandler(&mocks.AuthService{})

	req := httptest.NewRequest(http.MethodPost, "/admin/api/logout", nil)
	rec := httptest.NewRecorder()

	h.Logout(rec, req)

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/admin", rec.Header().Get("Location"))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "auth_token", cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Equal(t, -1, cookies[0].MaxAge)
}
