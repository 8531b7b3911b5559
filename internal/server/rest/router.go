package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/HazimBhatt/sharefolio/internal/logging"
	"github.com/HazimBhatt/sharefolio/internal/metrics"
	"github.com/HazimBhatt/sharefolio/internal/server/auth"
	"github.com/HazimBhatt/sharefolio/internal/server/services"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
)

// SessionVerifier decodes session tokens.
type SessionVerifier interface {
	Verify(token string) (*auth.Identity, error)
}

// Options tune the router.
type Options struct {
	// Production marks the session cookie Secure.
	Production bool
	SessionTTL time.Duration

	CORSAllowedOrigins []string

	// AuthRateLimit requests per AuthRateWindow per client IP on /auth.
	// Zero disables the limit.
	AuthRateLimit  int
	AuthRateWindow time.Duration

	// Ping reports storage health on /healthz. Nil means always healthy.
	Ping func(ctx context.Context) error
}

// Handler serves the HTTP API.
type Handler struct {
	users      *services.UserService
	portfolios *services.PortfolioService
	media      *services.MediaService
	issuer     SessionVerifier
	cookies    cookieSettings
	ping       func(ctx context.Context) error
	logger     logging.Logger
}

func NewHandler(us *services.UserService, ps *services.PortfolioService, ms *services.MediaService,
	issuer SessionVerifier, opts Options, l logging.Logger) *Handler {
	return &Handler{
		users:      us,
		portfolios: ps,
		media:      ms,
		issuer:     issuer,
		cookies:    cookieSettings{secure: opts.Production, ttl: opts.SessionTTL},
		ping:       opts.Ping,
		logger:     l.With("module", "rest"),
	}
}

// NewRouter builds the chi router with the global middleware stack.
func NewRouter(h *Handler, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(h.logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.CORSAllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", h.health)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/auth", func(r chi.Router) {
		if opts.AuthRateLimit > 0 {
			r.Use(httprate.Limit(opts.AuthRateLimit, opts.AuthRateWindow,
				httprate.WithKeyFuncs(httprate.KeyByIP),
				httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
					writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "Too many requests, please try again later"})
				}),
			))
		}

		r.Post("/signup", h.signUp)
		r.Post("/login", h.login)
		r.Post("/logout", h.logout)
		r.Get("/verify", h.verify)
		r.Post("/forgot-password", h.forgotPassword)
		r.Post("/verify-otp", h.verifyOTP)
		r.Post("/reset-password", h.resetPassword)
	})

	r.Group(func(r chi.Router) {
		r.Use(requireSession(h.issuer))

		r.Post("/media/sign-upload", h.signUpload)

		r.Get("/portfolios/dashboard", h.listOwned)
		r.Post("/portfolios/dashboard", h.createPortfolio)
		r.Patch("/portfolios/dashboard/{id}", h.setPublished)
		r.Delete("/portfolios/dashboard/{id}", h.deleteOwned)
	})

	r.Get("/portfolios/{subdomain}", h.getPublic)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "Route not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "Method not allowed"})
	})

	return r
}
