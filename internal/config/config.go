package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config contains server configuration parameters.
type Config struct {
	LogLevel     int     `env:"LOG_LEVEL" envDefault:"0"`
	PublicOrigin string  `env:"PUBLIC_ORIGIN" envDefault:"http://localhost:8080"`
	HTTP         HTTP    `envPrefix:"HTTP_"`
	Auth         Auth    `envPrefix:"AUTH_"`
	Content      Content `envPrefix:"GITHUB_"`
	Email        Email   `envPrefix:"RESEND_"`
}

// HTTP contains HTTP server parameters.
type HTTP struct {
	Port               string `env:"PORT" envDefault:"8080"`
	EnableHTTPS        bool   `env:"ENABLE_HTTPS" envDefault:"false"`
	CertFileName       string `env:"CERT_FILE_NAME" envDefault:"cert.pem"`
	PrivateKeyFileName string `env:"PRIVATE_KEY_FILE_NAME" envDefault:"key.pem"`
}

// Auth contains authentication parameters. The durations default to the
// production values; tests construct services with shorter ones directly.
type Auth struct {
	AdminEmail    string        `env:"ADMIN_EMAIL"`
	JWTSecret     string        `env:"JWT_SECRET"`
	SessionTTL    time.Duration `env:"SESSION_TTL" envDefault:"168h"`
	LinkTTL       time.Duration `env:"LINK_TTL" envDefault:"15m"`
	ConsumedTTL   time.Duration `env:"CONSUMED_TTL" envDefault:"60s"`
	ReuseWindow   time.Duration `env:"REUSE_WINDOW" envDefault:"5s"`
	RateLimit     int           `env:"RATE_LIMIT" envDefault:"10"`
	RateWindow    time.Duration `env:"RATE_WINDOW" envDefault:"60s"`
}

// Content contains Git-hosting content store parameters.
type Content struct {
	Token       string `env:"TOKEN"`
	Repo        string `env:"REPO" envDefault:"mannepanne/hultberg-org"`
	APIBase     string `env:"API_BASE" envDefault:"https://api.github.com"`
	UpdatesPath string `env:"UPDATES_PATH" envDefault:"public/updates/data"`
	ImagesPath  string `env:"IMAGES_PATH" envDefault:"public/images/updates"`
	Author      string `env:"AUTHOR" envDefault:"Magnus Hultberg"`
}

// Email contains transactional email parameters.
type Email struct {
	APIKey  string `env:"API_KEY"`
	APIBase string `env:"API_BASE" envDefault:"https://api.resend.com"`
	From    string `env:"FROM" envDefault:"Hultberg.org Admin <noreply@hultberg.org>"`
}

// NewConfig loads configuration from environment variables.
func NewConfig() (*Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, nil
}
