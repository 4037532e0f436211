// Package handler provides HTTP handlers for all API endpoints.
// Handlers call into the tournament through a session.Session, which
// serializes mutations; read endpoints are served from the ETag cache.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/Johane03/Drag-Race-Manager/internal/api/respond"
	"github.com/Johane03/Drag-Race-Manager/internal/cache"
	"github.com/Johane03/Drag-Race-Manager/internal/config"
	"github.com/Johane03/Drag-Race-Manager/internal/session"
	"github.com/Johane03/Drag-Race-Manager/internal/store"
	"github.com/Johane03/Drag-Race-Manager/internal/tournament"
)

// maxUploadBytes caps roster uploads and snapshot bodies.
const maxUploadBytes = 32 << 20

// SnapshotStore persists tournament snapshots. *store.Snapshots satisfies it.
type SnapshotStore interface {
	Save(ctx context.Context, label string, snap tournament.Snapshot) (store.Record, error)
	List(ctx context.Context, limit int) ([]store.Record, error)
	HealthCheck(ctx context.Context) error
}

// Handler holds shared dependencies for all endpoint handlers.
type Handler struct {
	session   *session.Session
	cache     *cache.Cache
	cfg       *config.Config
	snapshots SnapshotStore // nil when no database is configured
	logger    *slog.Logger
	now       func() time.Time
}

// New creates a Handler with shared dependencies. snapshots may be nil.
func New(s *session.Session, c *cache.Cache, cfg *config.Config, snapshots SnapshotStore, logger *slog.Logger) *Handler {
	return &Handler{
		session:   s,
		cache:     c,
		cfg:       cfg,
		snapshots: snapshots,
		logger:    logger,
		now:       time.Now,
	}
}

// Root serves API info at /.
// @Summary API root info
// @Description Returns API name, version, status and tournament name.
// @Tags meta
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"name":        "Drag Race Manager API",
		"version":     "1.0.0",
		"status":      "running",
		"tournament":  h.cfg.TournamentName,
		"docs":        "/docs",
		"persistence": h.snapshots != nil,
	})
}

// HealthCheck returns basic health status.
// @Summary Health check
// @Description Returns basic health status and timestamp.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": h.now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckDB verifies database connectivity.
// @Summary Database health check
// @Description Verifies Postgres connectivity. Reports "disabled" when no database is configured.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health/db [get]
func (h *Handler) HealthCheckDB(w http.ResponseWriter, r *http.Request) {
	if h.snapshots == nil {
		respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
			"status":    "healthy",
			"database":  "disabled",
			"timestamp": h.now().UTC().Format(time.RFC3339),
		})
		return
	}
	if err := h.snapshots.HealthCheck(r.Context()); err != nil {
		respond.WriteJSONObject(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":    "unhealthy",
			"database":  "disconnected",
			"error":     "Database connection check failed",
			"timestamp": h.now().UTC().Format(time.RFC3339),
		})
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"database":  "connected",
		"timestamp": h.now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckCache returns cache statistics.
// @Summary Cache health check
// @Description Returns in-memory cache statistics.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health/cache [get]
func (h *Handler) HealthCheckCache(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"cache":     h.cache.Stats(),
		"timestamp": h.now().UTC().Format(time.RFC3339),
	})
}

// --------------------------------------------------------------------------
// Helpers
// --------------------------------------------------------------------------

// decodeBody decodes a JSON request body into v, writing a 400 on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxUploadBytes))
	if err := dec.Decode(v); err != nil {
		respond.WriteErrorDetail(w, http.StatusBadRequest, "INVALID_BODY", "Request body must be valid JSON", err.Error())
		return false
	}
	return true
}

// writeResult sends a tournament result. Rule violations are still 200, the
// caller inspects "success".
func writeResult(w http.ResponseWriter, res tournament.Result) {
	respond.WriteJSONObject(w, http.StatusOK, res)
}

// serveCached writes the cached body for key, or builds it with load, caches
// it for ttl and writes it. Honors If-None-Match.
//
// The body is built and stored while holding the session's read lock, so a
// mutation's cache purge always runs after any entry built from older state.
func (h *Handler) serveCached(w http.ResponseWriter, r *http.Request, key string, ttl time.Duration, load func(m *tournament.Manager) interface{}) {
	if data, etag, ok := h.cache.Get(key); ok {
		if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
			respond.WriteNotModified(w, etag)
			return
		}
		respond.WriteJSON(w, data, etag, ttl, true)
		return
	}

	var (
		data []byte
		etag string
		err  error
	)
	h.session.View(func(m *tournament.Manager) {
		data, err = json.Marshal(load(m))
		if err == nil {
			etag = h.cache.Set(key, data, ttl)
		}
	})
	if err != nil {
		h.logger.Error("Failed to encode response", "key", key, "error", err)
		respond.WriteError(w, http.StatusInternalServerError, "ENCODE_FAILED", "Failed to encode response")
		return
	}
	if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
		respond.WriteNotModified(w, etag)
		return
	}
	respond.WriteJSON(w, data, etag, ttl, false)
}
