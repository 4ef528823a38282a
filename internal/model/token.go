package model

// MagicLinkToken is the stored form of a one-time login token, serialized
// as JSON under the key auth:token:{id}.
type MagicLinkToken struct {
	Email     string `json:"email"`
	Timestamp int64  `json:"timestamp"` // unix milliseconds at issue or consumption
	Used      bool   `json:"used"`
}

// SessionMinter builds and verifies signed, time-bound session credentials.
type SessionMinter interface {
	Mint(email string) (string, error)
	Verify(credential string) (string, error)
}
