package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mannepanne/hultberg-admin/internal/model"
)

// Claims represents session JWT claims carrying the authenticated email.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// JWT implements model.SessionMinter backed by symmetric HMAC-SHA256.
// A credential is a pure function of (secret, email, now); verification
// needs no server-side session table.
type JWT struct {
	secretKey string
	ttl       time.Duration
	now       func() time.Time
}

// NewJWT creates a session codec with the provided secret key and lifetime.
func NewJWT(secretKey string, ttl time.Duration) *JWT {
	return &JWT{secretKey: secretKey, ttl: ttl, now: time.Now}
}

// Mint builds a signed credential asserting email, valid for the
// configured lifetime from now.
func (j *JWT) Mint(email string) (string, error) {
	if j.secretKey == "" {
		return "", fmt.Errorf("session secret is not configured")
	}

	now := j.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.ttl)),
		},
		Email: email,
	})

	tokenString, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}

	return tokenString, nil
}

// Verify checks the signature and expiry of a credential and returns the
// email it asserts. Every failure flavor (malformed, tampered, wrong
// signing method, expired) collapses into model.ErrInvalidToken.
func (j *JWT) Verify(tokenString string) (string, error) {
	if j.secretKey == "" {
		return "", fmt.Errorf("session secret is not configured")
	}

	claims := &Claims{}
	parser := jwt.NewParser(jwt.WithTimeFunc(j.now))
	token, err := parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("wrong signing method %v", t.Header["alg"])
		}
		return []byte(j.secretKey), nil
	})
	if err != nil || !token.Valid || claims.Email == "" {
		return "", model.ErrInvalidToken
	}

	return claims.Email, nil
}
