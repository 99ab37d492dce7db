package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/xavierca1/residence-leads/internal/infra/http/middleware"
	"github.com/xavierca1/residence-leads/internal/usecase"
)

type RouterDeps struct {
	CaptureLeadUC *usecase.CaptureLeadUseCase
	TriageUC      *usecase.TriageLeadUseCase
	Gate          usecase.SessionAuthenticator
	CookieName    string
	SecureCookie  bool
	Health        *HealthHandler
	CORSOrigins   []string
	Log           logrus.FieldLogger
}

func NewRouter(deps RouterDeps) http.Handler {
	log := deps.Log
	if log == nil {
		log = logrus.StandardLogger()
	}

	leadHandler := NewLeadHandler(deps.CaptureLeadUC)
	adminHandler := NewAdminLeadHandler(deps.TriageUC)
	authHandler := NewAuthHandler(deps.Gate, deps.CookieName, deps.SecureCookie, log)

	origins := deps.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.RequestLogger(log))
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	if deps.Health != nil {
		r.Get("/health", deps.Health.Handle)
	}
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/leads", leadHandler.CaptureLead)

	r.Route("/admin", func(r chi.Router) {
		r.Post("/login", authHandler.Login)
		r.Post("/logout", authHandler.Logout)

		r.Group(func(r chi.Router) {
			r.Use(middleware.AdminSession(deps.Gate, deps.CookieName))
			r.Get("/leads", adminHandler.List)
			r.Get("/leads/{id}", adminHandler.Get)
			r.Patch("/leads/{id}", adminHandler.Update)
		})
	})

	return r
}
