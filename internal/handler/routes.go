package handler

import (
	"log/slog"
	"net/http"

	"github.com/msomdec/accounts/internal/service"
)

// Deps are the services the HTTP layer needs.
type Deps struct {
	Auth          *service.AuthService
	Users         *service.UserService
	Sessions      *service.SessionService
	SigninLimiter *service.TokenBucket
	CookieSecure  bool
	Logger        *slog.Logger
}

// RegisterRoutes sets up all HTTP routes on the given mux.
func RegisterRoutes(mux *http.ServeMux, d Deps) {
	authHandler := NewAuthHandler(d.Auth, d.Sessions, d.CookieSecure)
	userHandler := NewUserHandler(d.Users)

	mux.HandleFunc("GET /healthz", HandleHealthz)
	mux.HandleFunc("GET /{$}", HandleHome)
	mux.HandleFunc("GET /account/status", HandleAccountStatus)

	mux.HandleFunc("POST /auth/signup", authHandler.HandleSignup)
	mux.Handle("POST /auth/signin", RateLimit(d.SigninLimiter, http.HandlerFunc(authHandler.HandleSignin)))
	mux.HandleFunc("POST /auth/signout", authHandler.HandleSignout)
	mux.Handle("GET /auth/whoami", RequireAuth(http.HandlerFunc(authHandler.HandleWhoAmI)))

	mux.HandleFunc("GET /auth", userHandler.HandleFind)
	mux.HandleFunc("GET /auth/{id}", userHandler.HandleGet)
	mux.HandleFunc("PATCH /auth/{id}", userHandler.HandleUpdate)
	mux.HandleFunc("DELETE /auth/{id}", userHandler.HandleDelete)
}

// NewRouter returns the fully wrapped application handler.
func NewRouter(d Deps) http.Handler {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()
	RegisterRoutes(mux, d)

	var h http.Handler = mux
	h = CurrentUser(d.Sessions, d.Users, h)
	h = SecurityHeaders(h)
	h = LogRequests(h)
	h = RequestID(logger, h)
	return h
}
