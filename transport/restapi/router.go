package restapi

import (
	"fmt"
	"net/http"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.opentelemetry.io/otel"

	"github.com/joaop06/jcoder/assets"
	"github.com/joaop06/jcoder/internal/svc/applicationsvc"
	"github.com/joaop06/jcoder/pkg/tracer"
	"github.com/joaop06/jcoder/pkg/validator"
	"github.com/joaop06/jcoder/transport/restapi/handlerapplication"
)

type Config struct {
	AppServiceName     string                 `validate:"required"`
	AppVersion         string                 `validate:"required"`
	ApplicationService applicationsvc.Service `validate:"required"`
}

type DefaultHTTP struct {
	router *chi.Mux
}

func NewHTTPTransport(cfg Config) (*DefaultHTTP, error) {
	if err := validator.Validate(cfg); err != nil {
		return nil, fmt.Errorf("http transport cfg error: %w", err)
	}

	handlerApp, err := handlerapplication.NewHandler(handlerapplication.HandlerConfig{
		ApplicationService: cfg.ApplicationService,
	})
	if err != nil {
		return nil, err
	}

	router := chi.NewRouter()

	skip := func(r *http.Request) bool {
		switch strings.TrimSpace(path.Clean(r.URL.Path)) {
		case "/health",
			"/ping":
			return true
		}

		return false
	}

	router.Use(middleware.StripSlashes)

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))

	router.Use(func(next http.Handler) http.Handler {
		return tracer.Middleware(tracer.MiddlewareConfig{
			TracerName:     "github.com/joaop06/jcoder",
			ServiceName:    assets.ServiceName,
			SkipFunc:       skip,
			TracerProvider: otel.GetTracerProvider(),    // global tracer provider
			TextPropagator: otel.GetTextMapPropagator(), // use global text map propagator
		}, next)
	})

	// add trace id and also log request response
	router.Use(func(next http.Handler) http.Handler {
		return requestLogger(skip, next)
	})

	router.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(fmt.Sprintf(`{"service": %q, "version": %q}`, cfg.AppServiceName, cfg.AppVersion)))
	})

	// Resource: applications
	router.Route("/api/v1/applications", func(r chi.Router) {
		r.Post("/", handlerApp.CreateApplication())                // create typed application with its components
		r.Get("/", handlerApp.ListApplications())                  // list by owner, ordered by display order
		r.Get("/{id}", handlerApp.GetByID())                       // get one with components
		r.Put("/{id}", handlerApp.PutApplication())                // full replace, type change included
		r.Delete("/{id}", handlerApp.DeleteByID())                 // soft delete and compact ordering
		r.Put("/{id}/display-order", handlerApp.PutDisplayOrder()) // move within the owner's list
	})

	instance := &DefaultHTTP{
		router: router,
	}

	return instance, nil
}

// Server .
func (a *DefaultHTTP) Server() http.Handler {
	return a.router
}
