// Package router sets up all HTTP routes and middleware chains for the
// newsdesk API. Routes are organized into public reads and an admin
// write surface with its own middleware stack.
package router

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"newsdesk/internal/handlers"
	"newsdesk/internal/middleware"
	"newsdesk/internal/session"
)

// Rate limits for the endpoints worth protecting: login against
// credential stuffing, search against scraping.
const (
	loginLimit   = 10
	loginWindow  = time.Minute
	searchLimit  = 30
	searchWindow = time.Minute
)

// Handlers bundles the handler groups the router wires up.
type Handlers struct {
	Auth       *handlers.Auth
	Articles   *handlers.Articles
	Categories *handlers.Categories
	Media      *handlers.Media
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up. The returned limiters should be stopped on
// shutdown.
func New(db *sql.DB, sessionStore *session.Store, h Handlers) (chi.Router, []*middleware.RateLimiter) {
	r := chi.NewRouter()

	loginLimiter := middleware.NewRateLimiter(loginLimit, loginWindow)
	searchLimiter := middleware.NewRateLimiter(searchLimit, searchWindow)

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.LoadSession(sessionStore))

	// Health check. No auth, no CSRF.
	r.Get("/health", healthHandler(db))

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.CSRF)

		// Auth endpoints.
		r.Route("/auth", func(r chi.Router) {
			r.With(loginLimiter.Middleware).Post("/login", h.Auth.Login)
			r.Post("/logout", h.Auth.Logout)

			// Verify only needs a session, even a pending one.
			r.Post("/2fa/verify", h.Auth.TwoFAVerify)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth)
				r.Get("/me", h.Auth.Me)
				r.Post("/2fa/setup", h.Auth.TwoFASetup)
			})
		})

		// admin gates the write surface. Reads and writes share paths;
		// only the verbs behind this chain need an admin session.
		admin := []func(http.Handler) http.Handler{
			middleware.RequireAuth,
			middleware.RequireAdmin,
		}

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", h.Categories.List)
			r.Get("/{slug}", h.Categories.GetBySlug)

			r.With(admin...).Post("/", h.Categories.Create)
			r.With(admin...).Put("/{id}", h.Categories.Update)
			r.With(admin...).Delete("/{id}", h.Categories.Delete)
		})

		r.Route("/articles", func(r chi.Router) {
			r.Get("/", h.Articles.List)
			r.Get("/featured", h.Articles.Featured)
			r.Get("/latest", h.Articles.Latest)
			r.With(searchLimiter.Middleware).Get("/search", h.Articles.Search)

			// Registered last so fixed paths above win.
			r.Get("/{slug}", h.Articles.GetBySlug)

			r.With(admin...).Post("/", h.Articles.Create)
			r.With(admin...).Put("/{id}", h.Articles.Update)
			r.With(admin...).Delete("/{id}", h.Articles.Delete)
		})

		r.Route("/media", func(r chi.Router) {
			r.Use(admin...)
			r.Get("/", h.Media.List)
			r.Post("/", h.Media.Upload)
			r.Delete("/{id}", h.Media.Delete)
		})
	})

	return r, []*middleware.RateLimiter{loginLimiter, searchLimiter}
}

// healthHandler reports liveness and whether the database answers a ping.
func healthHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := db.PingContext(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"degraded","database":"unreachable"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}
}
