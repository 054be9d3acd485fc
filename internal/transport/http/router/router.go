package router

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/baechuer/real-time-ressys/services/invoice-service/internal/transport/http/middleware"
)

type HealthHandler interface {
	Healthz(w http.ResponseWriter, r *http.Request)
	Readyz(w http.ResponseWriter, r *http.Request)
}

type AccountHandler interface {
	Signup(w http.ResponseWriter, r *http.Request)
	CheckEmail(w http.ResponseWriter, r *http.Request)
	Login(w http.ResponseWriter, r *http.Request)
	Logout(w http.ResponseWriter, r *http.Request)
}

type InvoiceHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type RateLimit struct {
	Enabled bool
	Limit   int
	Window  time.Duration
}

type Deps struct {
	Health   HealthHandler
	Accounts AccountHandler
	Invoices InvoiceHandler
	Sessions middleware.SessionVerifier

	RateLimit RateLimit
	// Metrics serves /metrics; defaults to the prometheus default registry.
	Metrics http.Handler
}

func New(deps Deps) (http.Handler, error) {
	if deps.Health == nil {
		return nil, fmt.Errorf("nil Health handler")
	}
	if deps.Accounts == nil {
		return nil, fmt.Errorf("nil Accounts handler")
	}
	if deps.Invoices == nil {
		return nil, fmt.Errorf("nil Invoices handler")
	}
	if deps.Sessions == nil {
		return nil, fmt.Errorf("nil session verifier")
	}
	if deps.Metrics == nil {
		deps.Metrics = promhttp.Handler()
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.SecurityHeaders)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.AccessLog)
	r.Use(middleware.Metrics)

	r.Get("/healthz", deps.Health.Healthz)
	r.Get("/readyz", deps.Health.Readyz)
	r.Handle("/metrics", deps.Metrics)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Identity(deps.Sessions))
		r.Use(middleware.Gate)

		// credential endpoints are the brute-force surface
		r.Group(func(r chi.Router) {
			if deps.RateLimit.Enabled {
				r.Use(httprate.LimitByIP(deps.RateLimit.Limit, deps.RateLimit.Window))
			}
			r.Post("/signup", deps.Accounts.Signup)
			r.Post("/signup/check-email", deps.Accounts.CheckEmail)
			r.Post("/login", deps.Accounts.Login)
		})
		r.Post("/logout", deps.Accounts.Logout)

		r.Route("/dashboard/invoices", func(r chi.Router) {
			r.Get("/", deps.Invoices.List)
			r.Post("/", deps.Invoices.Create)
			r.Get("/{id}", deps.Invoices.Get)
			r.Put("/{id}", deps.Invoices.Update)
			r.Delete("/{id}", deps.Invoices.Delete)
		})
	})

	return r, nil
}
