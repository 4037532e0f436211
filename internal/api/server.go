// Package api wires the HTTP router: middleware, CORS, rate limiting, Swagger
// UI and the tournament routes.
package api

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	corslib "github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/Johane03/Drag-Race-Manager/internal/api/handler"
	"github.com/Johane03/Drag-Race-Manager/internal/cache"
	"github.com/Johane03/Drag-Race-Manager/internal/config"
	"github.com/Johane03/Drag-Race-Manager/internal/session"
)

// NewRouter creates and configures the Chi router with all middleware and routes.
// snapshots may be nil, in which case the tournament lives in memory only.
func NewRouter(sess *session.Session, appCache *cache.Cache, snapshots handler.SnapshotStore, cfg *config.Config, logger *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	// --- Middleware stack ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(TimingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5)) // gzip

	// CORS
	c := corslib.New(corslib.Options{
		AllowedOrigins:   cfg.CORSAllowOrigins,
		AllowedMethods:   []string{"GET", "HEAD", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Accept-Encoding", "Content-Type", "If-None-Match", "Cache-Control"},
		ExposedHeaders:   []string{"X-Process-Time", "X-Cache", "ETag", "Content-Disposition", "X-Snapshot-ID"},
		AllowCredentials: false,
	})
	r.Use(c.Handler)

	// Rate limiting
	if cfg.RateLimitEnabled {
		r.Use(RateLimitMiddleware(cfg.RateLimitRequests, cfg.RateLimitWindow))
	}

	// Any change to the tournament invalidates every cached view of it.
	sess.OnChange(appCache.Purge)

	// --- Handler dependencies ---
	h := handler.New(sess, appCache, cfg, snapshots, logger)

	// --- Routes ---

	// Root
	r.Get("/", h.Root)

	// Health checks
	r.Route("/health", func(r chi.Router) {
		r.Get("/", h.HealthCheck)
		r.Get("/db", h.HealthCheckDB)
		r.Get("/cache", h.HealthCheckCache)
	})

	// Swagger UI
	r.Get("/docs/*", httpSwagger.Handler(
		httpSwagger.URL("/docs/doc.json"),
	))

	r.Route("/api", func(r chi.Router) {
		// Drivers
		r.Get("/drivers", h.GetDrivers)
		r.Post("/drivers", h.AddDriver)
		r.Put("/drivers/{name}", h.UpdateDriver)
		r.Delete("/drivers/{name}", h.DeleteDriver)
		r.Get("/divisions", h.GetDivisions)

		// Races
		r.Post("/race", h.RecordRace)
		r.Get("/races", h.GetRaces)

		// Standings
		r.Get("/rankings", h.GetRankings)
		r.Get("/active-drivers/{division}", h.GetActiveDrivers)
		r.Get("/stats", h.GetStats)

		// Export
		r.Get("/export", h.ExportCSV)
		r.Get("/export-excel", h.ExportExcel)

		// Save / load
		r.Post("/save", h.SaveTournament)
		r.Post("/load", h.LoadTournament)
		r.Post("/load-excel", h.LoadExcel)
		r.Get("/snapshots", h.ListSnapshots)
	})

	return r
}
