// Package api exposes a local HTTP interface for triggering pipeline runs
// and reading their reports.
package api

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/hoanghai1803/cryptopulse/internal/api/handlers"
)

// Deps are the services the API routes are wired to.
type Deps struct {
	Runner   handlers.Runner
	Resolver handlers.HeadlineResolver
	Reports  handlers.ReportStore
	Limit    int
	Logger   *slog.Logger
}

// NewRouter creates the router with every API route.
func NewRouter(d Deps) *chi.Mux {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(RequestLogger(d.Logger))
	r.Use(Recovery(d.Logger))
	r.Use(CORS)

	r.Route("/api", func(api chi.Router) {
		api.Get("/health", handlers.Health())

		api.Get("/headlines", handlers.GetHeadlines(d.Resolver, d.Limit, d.Logger))

		api.Post("/runs", handlers.TriggerRun(d.Runner, d.Logger))

		api.Get("/reports", handlers.ListReports(d.Reports, d.Logger))
		api.Get("/reports/latest", handlers.GetLatestReport(d.Reports, d.Logger))
		api.Get("/reports/{timestamp}", handlers.GetReport(d.Reports, d.Logger))
	})

	return r
}
