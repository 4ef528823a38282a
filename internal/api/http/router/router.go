package router

import (
	"net/http"
	"time"

	"github.com/mannepanne/hultberg-admin/internal/api/http/handler"
	"github.com/mannepanne/hultberg-admin/internal/api/http/middleware"
	"github.com/mannepanne/hultberg-admin/internal/logger"
	"github.com/mannepanne/hultberg-admin/internal/model"
)

// Router assembles the admin API endpoints with their middleware chains.
type Router struct {
	authService    handler.AuthService
	contentService handler.ContentService
	minter         model.SessionMinter
	contextManager model.ContextManager
	origin         string
	sessionTTL     time.Duration
	logger         *logger.Logger
}

// New creates a new Router instance.
func New(
	authService handler.AuthService,
	contentService handler.ContentService,
	minter model.SessionMinter,
	contextManager model.ContextManager,
	origin string,
	sessionTTL time.Duration,
	logger *logger.Logger,
) *Router {
	return &Router{
		authService:    authService,
		contentService: contentService,
		minter:         minter,
		contextManager: contextManager,
		origin:         origin,
		sessionTTL:     sessionTTL,
		logger:         logger,
	}
}

type middlewareFunc func(http.Handler) http.Handler

// Register builds the full handler tree: login endpoints open, token
// confirmation origin-guarded, content endpoints behind same-origin plus
// session checks, everything wrapped in request logging.
func (r *Router) Register() http.Handler {
	authHandler := handler.NewAuth(r.authService, r.origin, r.sessionTTL, r.logger)
	updateHandler := handler.NewUpdate(r.contentService, r.logger)

	logging := middleware.NewLogging(r.logger)
	sameOrigin := middleware.NewSameOrigin(r.origin, r.logger)
	authenticate := middleware.NewAuthenticate(r.minter, r.contextManager, r.logger)

	mux := http.NewServeMux()
	handle := func(method, path string, h http.HandlerFunc, mws ...middlewareFunc) {
		var wrapped http.Handler = h
		for i := len(mws) - 1; i >= 0; i-- {
			wrapped = mws[i](wrapped)
		}
		mux.Handle(method+" "+path, wrapped)
	}

	handle(http.MethodPost, "/admin/api/send-magic-link", authHandler.SendMagicLink)
	handle(http.MethodGet, "/admin/api/verify-token", authHandler.VerifyTokenPage)
	handle(http.MethodPost, "/admin/api/verify-token", authHandler.VerifyToken, sameOrigin.Handle)
	handle(http.MethodPost, "/admin/api/logout", authHandler.Logout, sameOrigin.Handle)

	handle(http.MethodGet, "/admin/api/updates", updateHandler.List, authenticate.Handle)
	handle(http.MethodPost, "/admin/api/save-update", updateHandler.Save, sameOrigin.Handle, authenticate.Handle)
	handle(http.MethodDelete, "/admin/api/delete-update", updateHandler.Delete, sameOrigin.Handle, authenticate.Handle)
	handle(http.MethodPost, "/admin/api/upload-image", updateHandler.UploadImage, sameOrigin.Handle, authenticate.Handle)
	handle(http.MethodDelete, "/admin/api/delete-image", updateHandler.DeleteImage, sameOrigin.Handle, authenticate.Handle)

	return logging.Handle(mux)
}
