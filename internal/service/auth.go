package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mannepanne/hultberg-admin/internal/logger"
	"github.com/mannepanne/hultberg-admin/internal/model"
)

const (
	tokenKeyPrefix     = "auth:token:"
	rateLimitKeyPrefix = "ratelimit:ip:"
)

// AuthConfig carries the tunable timings and limits of the login flow.
// Tests construct it with short durations; production values come from
// the environment.
type AuthConfig struct {
	AdminEmail  string
	LinkTTL     time.Duration
	ConsumedTTL time.Duration
	ReuseWindow time.Duration
	RateLimit   int
	RateWindow  time.Duration
}

// Auth implements the magic-link login flow: rate-limited link requests,
// single-use token consumption and session credential minting.
type Auth struct {
	kv     model.KVStore
	mailer model.Mailer
	minter model.SessionMinter
	clock  model.Clock
	logger *logger.Logger
	cfg    AuthConfig
}

func NewAuth(
	kv model.KVStore,
	mailer model.Mailer,
	minter model.SessionMinter,
	clock model.Clock,
	logger *logger.Logger,
	cfg AuthConfig,
) *Auth {
	return &Auth{
		kv:     kv,
		mailer: mailer,
		minter: minter,
		clock:  clock,
		logger: logger,
		cfg:    cfg,
	}
}

// Admit applies the per-identity rate limit: RateLimit requests per fixed
// RateWindow, the window restarting whenever the counter key has expired.
// The read-then-write is not atomic, and re-issuing the TTL on every
// increment means a burst straddling a window boundary can admit up to
// twice the limit. Both are known limitations, acceptable for this
// system's single-admin traffic.
func (a *Auth) Admit(ctx context.Context, identity string) error {
	key := rateLimitKeyPrefix + identity

	value, err := a.kv.Get(ctx, key)
	if errors.Is(err, model.ErrNotFound) {
		if err := a.kv.Put(ctx, key, "1", a.cfg.RateWindow); err != nil {
			return fmt.Errorf("failed to initialize rate counter: %w", err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read rate counter: %w", err)
	}

	count, err := strconv.Atoi(value)
	if err != nil {
		// Corrupt counter: reset rather than trust it.
		count = 0
	}

	if count >= a.cfg.RateLimit {
		return model.ErrRateLimited
	}

	if err := a.kv.Put(ctx, key, strconv.Itoa(count+1), a.cfg.RateWindow); err != nil {
		return fmt.Errorf("failed to increment rate counter: %w", err)
	}

	return nil
}

// Issue generates a fresh magic-link token for email and stores it for
// LinkTTL. The token id carries 256 bits of entropy.
func (a *Auth) Issue(ctx context.Context, email string) (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	id := base64.RawURLEncoding.EncodeToString(raw)

	record := model.MagicLinkToken{
		Email:     email,
		Timestamp: a.clock.Now().UnixMilli(),
		Used:      false,
	}
	encoded, err := json.Marshal(record)
	if err != nil {
		return "", fmt.Errorf("failed to encode token record: %w", err)
	}

	if err := a.kv.Put(ctx, tokenKeyPrefix+id, string(encoded), a.cfg.LinkTTL); err != nil {
		return "", fmt.Errorf("failed to store token: %w", err)
	}

	return id, nil
}

// Peek reports whether a token is present and still consumable, without
// touching it. The verification GET uses this so that email security
// scanners prefetching the link cannot burn the token before the human
// clicks.
func (a *Auth) Peek(ctx context.Context, id string) bool {
	value, err := a.kv.Get(ctx, tokenKeyPrefix+id)
	if err != nil {
		return false
	}

	var record model.MagicLinkToken
	if err := json.Unmarshal([]byte(value), &record); err != nil {
		return false
	}

	return !record.Used
}

// Consume performs the token's single state transition, unused to used,
// and returns the email it was issued for. It rejects tokens that are
// absent, malformed, already used, or issued within ReuseWindow of now.
// The window masks the backing store's read-after-write lag: a second
// reader racing the used=true write sees a timestamp too fresh to accept.
// The transition is terminal; the used record is retained only for
// ConsumedTTL to absorb that same lag.
func (a *Auth) Consume(ctx context.Context, id string) (string, error) {
	key := tokenKeyPrefix + id

	value, err := a.kv.Get(ctx, key)
	if errors.Is(err, model.ErrNotFound) {
		return "", model.ErrInvalidToken
	}
	if err != nil {
		return "", fmt.Errorf("failed to read token: %w", err)
	}

	var record model.MagicLinkToken
	if err := json.Unmarshal([]byte(value), &record); err != nil {
		a.logger.Error("Auth service: malformed token record", "error", err.Error())
		return "", model.ErrInvalidToken
	}

	if record.Used {
		return "", model.ErrInvalidToken
	}

	now := a.clock.Now()
	if now.Sub(time.UnixMilli(record.Timestamp)) < a.cfg.ReuseWindow {
		return "", model.ErrInvalidToken
	}

	used := model.MagicLinkToken{
		Email:     record.Email,
		Timestamp: now.UnixMilli(),
		Used:      true,
	}
	encoded, err := json.Marshal(used)
	if err != nil {
		return "", fmt.Errorf("failed to encode used token record: %w", err)
	}
	if err := a.kv.Put(ctx, key, string(encoded), a.cfg.ConsumedTTL); err != nil {
		return "", fmt.Errorf("failed to mark token used: %w", err)
	}

	return record.Email, nil
}

// RequestLogin handles a login request for email from the given client
// identity. It reports success whether or not the email matches the
// configured admin address; only the logs distinguish the two, so the
// endpoint cannot be used to probe which address is real. Mail delivery
// failures are likewise logged and swallowed.
func (a *Auth) RequestLogin(ctx context.Context, email, identity, origin string) error {
	if err := a.Admit(ctx, identity); err != nil {
		return err
	}

	if a.cfg.AdminEmail == "" || !strings.EqualFold(email, a.cfg.AdminEmail) {
		a.logger.Info("Auth service: login requested for non-admin email",
			"email", email)
		return nil
	}

	id, err := a.Issue(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to issue login token: %w", err)
	}

	link := origin + "/admin/api/verify-token?token=" + id
	if err := a.mailer.Send(ctx, email, "Your admin login link", loginEmailHTML(link)); err != nil {
		a.logger.Error("Auth service: failed to send login email",
			"email", email,
			"error", err.Error())
		return nil
	}

	a.logger.Info("Auth service: login link sent", "email", email)

	return nil
}

// VerifyLogin consumes a magic-link token and mints the session
// credential for the email it asserted.
func (a *Auth) VerifyLogin(ctx context.Context, id string) (string, error) {
	email, err := a.Consume(ctx, id)
	if err != nil {
		return "", err
	}

	credential, err := a.minter.Mint(email)
	if err != nil {
		return "", fmt.Errorf("failed to mint session credential: %w", err)
	}

	a.logger.Info("Auth service: login completed", "email", email)

	return credential, nil
}

func loginEmailHTML(link string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Your admin login link</title></head>
<body style="font-family: -apple-system, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h1 style="font-size: 24px;">Admin Login</h1>
  <p>Click the link below to log in to your admin dashboard:</p>
  <p><a href="%s">Log In to Admin</a></p>
  <p style="font-size: 13px; color: #6c757d;">This link will expire in 15 minutes and can only be used once.
  If you didn't request it, you can safely ignore this email.</p>
</body>
</html>`, link)
}
