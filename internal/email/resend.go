package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mannepanne/hultberg-admin/internal/model"
)

// httpDoer lets tests inject a transport without a real API endpoint.
type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config carries the mail provider coordinates.
type Config struct {
	APIBase string
	APIKey  string
	From    string
}

var _ model.Mailer = (*Resend)(nil)

// Resend implements model.Mailer against the Resend HTTP API.
type Resend struct {
	api     httpDoer
	apiBase string
	apiKey  string
	from    string
}

// NewResend creates a mail client using a default HTTP client.
func NewResend(cfg Config) *Resend {
	return NewResendWithDoer(cfg, &http.Client{Timeout: 15 * time.Second})
}

// NewResendWithDoer allows injecting a mockable transport (used in tests).
func NewResendWithDoer(cfg Config, doer httpDoer) *Resend {
	return &Resend{
		api:     doer,
		apiBase: strings.TrimRight(cfg.APIBase, "/"),
		apiKey:  cfg.APIKey,
		from:    cfg.From,
	}
}

type sendRequest struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

// Send dispatches one HTML email.
func (r *Resend) Send(ctx context.Context, to, subject, html string) error {
	if r.apiKey == "" {
		return fmt.Errorf("mail API key is not configured")
	}

	body, err := json.Marshal(sendRequest{From: r.from, To: to, Subject: subject, HTML: html})
	if err != nil {
		return fmt.Errorf("failed to encode mail request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.apiBase+"/emails", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build mail request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+r.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.api.Do(req)
	if err != nil {
		return fmt.Errorf("mail request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("mail provider returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	return nil
}
