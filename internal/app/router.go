package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tesoro-admin/tesoro/internal/catalog"
	"github.com/tesoro-admin/tesoro/internal/movement"
	"github.com/tesoro-admin/tesoro/internal/observability"
	"github.com/tesoro-admin/tesoro/internal/platform/httpx"
	"github.com/tesoro-admin/tesoro/internal/projection"
	"github.com/tesoro-admin/tesoro/internal/report"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger            *slog.Logger
	Config            *Config
	CatalogHandler    *catalog.Handler
	MovementHandler   *movement.Handler
	ProjectionHandler *projection.Handler
	ReportHandler     *report.Handler
	Metrics           *observability.Metrics
}

// NewRouter constructs the chi.Router with Tesoro defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/catalog", func(r chi.Router) {
			params.CatalogHandler.MountRoutes(r)
		})
		r.Route("/movements", func(r chi.Router) {
			params.MovementHandler.MountRoutes(r)
		})
		r.Route("/projections", func(r chi.Router) {
			params.ProjectionHandler.MountRoutes(r)
		})
		r.Route("/reports", func(r chi.Router) {
			params.ReportHandler.MountRoutes(r)
		})
	})

	return r
}
