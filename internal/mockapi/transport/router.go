// Package transport exposes the mock API over HTTP.
package transport

import (
	"net/http"

	"github.com/budgetup/budgetup/internal/logging"
	"github.com/budgetup/budgetup/internal/mockapi/config"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"
)

// Deps holds what the router wires together. A nil Limiter gets the default
// of 5 requests per second with a burst of 10.
type Deps struct {
	Users   UserService
	Logger  logging.Logger
	Limiter *RateLimiter
}

// NewRouter builds the mock API router.
func NewRouter(cfg *config.Config, deps Deps) http.Handler {
	limiter := deps.Limiter
	if limiter == nil {
		limiter = NewRateLimiter(rate.Limit(5), 10)
	}
	h := NewHandler(deps.Users, deps.Logger)

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger(deps.Logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", h.Health)

	r.Route("/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(limiter.Limit)

			r.Post("/password/login", h.PasswordLogin)
			r.Post("/password/signup", h.PasswordSignup)
			r.Post("/google", h.Google)
			r.Post("/email/send-login-code", h.SendLoginCode)
			r.Post("/email/signup", h.SendSignupCode)
			r.Post("/email/verify-login-code", h.VerifyLoginCode)
			r.Post("/email/verify-signup-code", h.VerifySignupCode)
		})
		r.Post("/password/set-password", h.SetPassword)
	})

	r.Route("/api/user", func(r chi.Router) {
		r.Use(Auth(deps.Users))

		r.Get("/onboarding/status", h.OnboardingStatus)
		r.Post("/onboarding", h.CompleteOnboarding)
		r.Get("/profile", h.Profile)
	})

	return r
}
