package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/pribylovaa/go-gift-service/internal/errors"
	"github.com/pribylovaa/go-gift-service/internal/http/handlers"
	"github.com/pribylovaa/go-gift-service/internal/http/middleware"
	"github.com/pribylovaa/go-gift-service/internal/metrics"
	"github.com/pribylovaa/go-gift-service/internal/service"
)

// Options — параметры сборки HTTP-роутера.
type Options struct {
	Logger       *slog.Logger
	Timeout      time.Duration
	MaxBodyBytes int64
	Metrics      *metrics.Metrics
}

// NewRouter собирает http.Handler API выгрузок на chi.
func NewRouter(svc *service.Service, opts Options) http.Handler {
	r := chi.NewRouter()

	// Middleware (внешний -> внутренний).
	r.Use(
		middleware.RequestID(),
		middleware.Logging(opts.Logger),
		middleware.Recover(),
		middleware.Metrics(opts.Metrics),
		middleware.Timeout(opts.Timeout),
	)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		apierrors.WriteError(w, service.ErrNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeMethodNotAllowed(w)
	})

	registerRoutes(r, handlers.New(svc, opts.MaxBodyBytes))

	return r
}

// registerRoutes — единая точка регистрации REST-эндпойнтов.
func registerRoutes(r chi.Router, h *handlers.Handlers) {
	r.Post("/imports", h.CreateImport)

	r.Route("/imports/{importId}", func(r chi.Router) {
		r.Get("/citizens", h.ListCitizens)
		r.Get("/citizens/birthdays", h.Birthdays)
		r.Patch("/citizens/{citizenId}", h.PatchCitizen)
		r.Get("/towns/stat/percentile/age", h.TownAgePercentiles)
	})
}

func writeMethodNotAllowed(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusMethodNotAllowed)
	_, _ = w.Write([]byte(`{"error":"method not allowed"}` + "\n"))
}
