package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	httpctx "github.com/mannepanne/hultberg-admin/internal/api/http/context"
	"github.com/mannepanne/hultberg-admin/internal/api/http/router"
	httpServer "github.com/mannepanne/hultberg-admin/internal/api/http/server"
	"github.com/mannepanne/hultberg-admin/internal/config"
	"github.com/mannepanne/hultberg-admin/internal/email"
	"github.com/mannepanne/hultberg-admin/internal/logger"
	"github.com/mannepanne/hultberg-admin/internal/model"
	"github.com/mannepanne/hultberg-admin/internal/repository/memorykv"
	"github.com/mannepanne/hultberg-admin/internal/server"
	"github.com/mannepanne/hultberg-admin/internal/service"
	"github.com/mannepanne/hultberg-admin/internal/storage/github"
	"github.com/mannepanne/hultberg-admin/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	// Local development convenience; the file is absent in production.
	_ = godotenv.Load()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	clock := model.SystemClock{}
	kv := memorykv.New(clock)
	minter := token.NewJWT(cfg.Auth.JWTSecret, cfg.Auth.SessionTTL)

	contentStore := github.NewClient(github.Config{
		APIBase: cfg.Content.APIBase,
		Repo:    cfg.Content.Repo,
		Token:   cfg.Content.Token,
	})
	mailer := email.NewResend(email.Config{
		APIBase: cfg.Email.APIBase,
		APIKey:  cfg.Email.APIKey,
		From:    cfg.Email.From,
	})

	authService := service.NewAuth(kv, mailer, minter, clock, logger, service.AuthConfig{
		AdminEmail:  cfg.Auth.AdminEmail,
		LinkTTL:     cfg.Auth.LinkTTL,
		ConsumedTTL: cfg.Auth.ConsumedTTL,
		ReuseWindow: cfg.Auth.ReuseWindow,
		RateLimit:   cfg.Auth.RateLimit,
		RateWindow:  cfg.Auth.RateWindow,
	})
	contentService := service.NewContent(contentStore, clock, logger, service.ContentConfig{
		UpdatesPath: cfg.Content.UpdatesPath,
		ImagesPath:  cfg.Content.ImagesPath,
		Author:      cfg.Content.Author,
	})

	r := router.New(
		authService,
		contentService,
		minter,
		httpctx.NewManager(),
		cfg.PublicOrigin,
		cfg.Auth.SessionTTL,
		logger,
	)
	srv := httpServer.NewHTTPServer(r.Register(), fmt.Sprintf(":%s", cfg.HTTP.Port))

	var sl model.SecurityLayer
	if cfg.HTTP.EnableHTTPS {
		sl = server.NewTLSListener(cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName)
	} else {
		sl = server.NewPlainListener()
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func(s model.Server) {
		defer wg.Done()
		logger.Info("Starting server on", "address", s.Address())
		if err := s.Start(sl); err != nil {
			logger.Error("failed to start server", "error", err)
		}
	}(srv)

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", srv.Address())
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
