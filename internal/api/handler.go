package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/openrevenue/harrier/internal/domain"
	"github.com/openrevenue/harrier/internal/rules"
)

// queryCacheTTL bounds staleness of cached list queries between runs.
// The engine invalidates the whole prefix when a run commits, so the
// TTL only matters for out-of-band writes.
const (
	queryCacheTTL    = 5 * time.Minute
	queryCachePrefix = "harrier:query:"
)

// Runner triggers a detection run. Satisfied by engine.Engine.
type Runner interface {
	Run(ctx context.Context, asOf time.Time) (*domain.EngineRun, error)
}

// Handler holds dependencies for API handlers.
type Handler struct {
	repo    domain.Repository
	cache   domain.Cache
	bus     domain.EventBus
	engine  *rules.Engine
	runner  Runner
	version string
}

// NewHandler creates a new API handler.
func NewHandler(repo domain.Repository, cache domain.Cache, bus domain.EventBus, engine *rules.Engine, runner Runner, version string) *Handler {
	return &Handler{
		repo:    repo,
		cache:   cache,
		bus:     bus,
		engine:  engine,
		runner:  runner,
		version: version,
	}
}

// RunRequest is the request body for POST /runs. A zero asOf means
// "now". Async requests are handed to the worker over the bus.
type RunRequest struct {
	AsOf  time.Time `json:"asOf,omitempty"`
	Async bool      `json:"async,omitempty"`
}

// TriggerRun handles POST /runs.
func (h *Handler) TriggerRun(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req RunRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{
				"error": "invalid JSON request body",
			})
			return
		}
	}

	asOf := req.AsOf
	if asOf.IsZero() {
		asOf = time.Now().UTC()
	}

	if req.Async {
		if h.bus == nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"error": "event bus not available",
			})
			return
		}
		payload, _ := json.Marshal(map[string]any{"asOf": asOf})
		if err := h.bus.Publish(ctx, domain.TopicRunRequested, payload); err != nil {
			slog.Error("failed to publish run request", "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{
				"error": "failed to request run",
			})
			return
		}
		writeJSON(w, http.StatusAccepted, map[string]any{
			"message": "run requested",
			"asOf":    asOf,
		})
		return
	}

	if h.runner == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"error": "engine not available",
		})
		return
	}

	run, err := h.runner.Run(ctx, asOf)
	if err != nil {
		if errors.Is(err, domain.ErrRunAborted) {
			writeJSON(w, http.StatusConflict, map[string]string{
				"error": "another run is in progress",
			})
			return
		}
		status := http.StatusInternalServerError
		if errors.Is(err, domain.ErrMalformedRecord) {
			status = http.StatusUnprocessableEntity
		}
		body := map[string]any{"error": err.Error()}
		if run != nil {
			body["runId"] = run.ID
		}
		writeJSON(w, status, body)
		return
	}

	writeJSON(w, http.StatusOK, run)
}

// GetRun handles GET /runs/{id}.
func (h *Handler) GetRun(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "id")
	if runID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "run id is required",
		})
		return
	}

	run, err := h.repo.GetRun(r.Context(), runID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{
				"error": "run not found",
			})
			return
		}
		slog.Error("failed to get run", "id", runID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "failed to load run",
		})
		return
	}

	writeJSON(w, http.StatusOK, run)
}

// ListAlerts handles GET /alerts. Results are ranked by score and
// cached under the query prefix until the next run invalidates it.
func (h *Handler) ListAlerts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	filter := domain.AlertFilter{
		TaxpayerID:   q.Get("taxpayer"),
		Status:       domain.AlertStatus(q.Get("status")),
		Priority:     domain.AlertPriority(q.Get("priority")),
		IncludeStale: q.Get("includeStale") == "true",
	}
	if limit := q.Get("limit"); limit != "" {
		if _, err := fmt.Sscanf(limit, "%d", &filter.Limit); err != nil || filter.Limit < 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{
				"error": "limit must be a non-negative integer",
			})
			return
		}
	}

	cacheKey := queryCachePrefix + "alerts:" + q.Encode()
	if h.serveCached(ctx, w, cacheKey) {
		return
	}

	alerts, err := h.repo.ListAlerts(ctx, filter)
	if err != nil {
		slog.Error("failed to list alerts", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "failed to list alerts",
		})
		return
	}

	h.writeAndCache(ctx, w, cacheKey, map[string]any{
		"alerts": alerts,
		"count":  len(alerts),
	})
}

// GetAlert handles GET /alerts/{key}.
func (h *Handler) GetAlert(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if key == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "alert key is required",
		})
		return
	}

	alert, err := h.repo.GetAlert(r.Context(), key)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{
				"error": "alert not found",
			})
			return
		}
		slog.Error("failed to get alert", "key", key, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "failed to load alert",
		})
		return
	}

	writeJSON(w, http.StatusOK, alert)
}

// UpdateAlertRequest is the request body for PATCH /alerts/{key}.
type UpdateAlertRequest struct {
	Status       domain.AlertStatus `json:"status"`
	Investigator string             `json:"investigator,omitempty"`
	Notes        string             `json:"notes,omitempty"`
}

// UpdateAlert handles PATCH /alerts/{key}. Only forward lifecycle
// transitions are allowed; closed alerts stay closed.
func (h *Handler) UpdateAlert(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	key := chi.URLParam(r, "key")
	if key == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "alert key is required",
		})
		return
	}

	var req UpdateAlertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "invalid JSON request body",
		})
		return
	}

	switch req.Status {
	case domain.AlertOpen, domain.AlertUnderInvestigation, domain.AlertClosed:
	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "status must be one of Open, Under Investigation, Closed",
		})
		return
	}

	if err := h.repo.UpdateAlertStatus(ctx, key, req.Status, req.Investigator, req.Notes); err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			writeJSON(w, http.StatusNotFound, map[string]string{
				"error": "alert not found",
			})
		case errors.Is(err, domain.ErrInvalidTransition):
			writeJSON(w, http.StatusConflict, map[string]string{
				"error": err.Error(),
			})
		default:
			slog.Error("failed to update alert", "key", key, "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{
				"error": "failed to update alert",
			})
		}
		return
	}

	if h.cache != nil {
		if err := h.cache.Invalidate(ctx, queryCachePrefix); err != nil {
			slog.Warn("query cache invalidation failed", "error", err)
		}
	}

	alert, err := h.repo.GetAlert(ctx, key)
	if err != nil {
		writeJSON(w, http.StatusOK, map[string]string{"status": string(req.Status)})
		return
	}
	writeJSON(w, http.StatusOK, alert)
}

// GetCompliance handles GET /compliance/{taxpayerID}.
func (h *Handler) GetCompliance(w http.ResponseWriter, r *http.Request) {
	taxpayerID := chi.URLParam(r, "taxpayerID")
	if taxpayerID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "taxpayer id is required",
		})
		return
	}

	snap, err := h.repo.GetComplianceSnapshot(r.Context(), taxpayerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{
				"error": "compliance snapshot not found",
			})
			return
		}
		slog.Error("failed to get compliance snapshot", "taxpayer_id", taxpayerID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "failed to load compliance snapshot",
		})
		return
	}

	writeJSON(w, http.StatusOK, snap)
}

// ListCohorts handles GET /cohorts.
func (h *Handler) ListCohorts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	cacheKey := queryCachePrefix + "cohorts"
	if h.serveCached(ctx, w, cacheKey) {
		return
	}

	stats, err := h.repo.ListCohortStats(ctx)
	if err != nil {
		slog.Error("failed to list cohort stats", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "failed to list cohort stats",
		})
		return
	}

	h.writeAndCache(ctx, w, cacheKey, map[string]any{
		"cohorts": stats,
		"count":   len(stats),
	})
}

// ListScreeningRules handles GET /screening-rules.
func (h *Handler) ListScreeningRules(w http.ResponseWriter, r *http.Request) {
	stored, err := h.repo.ListScreeningRules(r.Context())
	if err != nil {
		slog.Error("failed to list screening rules", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "failed to list screening rules",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"rules":  stored,
		"count":  len(stored),
		"loaded": h.engine.RulesCount(),
	})
}

// CreateScreeningRule handles POST /screening-rules. The expression is
// compiled before anything is persisted so bad CEL never reaches the
// database.
func (h *Handler) CreateScreeningRule(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var rule domain.ScreeningRule
	if err := json.NewDecoder(r.Body).Decode(&rule); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "invalid JSON request body",
		})
		return
	}

	if rule.ID == "" || rule.Name == "" || rule.Expression == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "id, name, and expression are required",
		})
		return
	}
	if rule.Score < 0 || rule.Score > 1 {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "score must be between 0 and 1",
		})
		return
	}

	if err := h.engine.ValidateRule(&rule); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "invalid expression: " + err.Error(),
		})
		return
	}

	if err := h.repo.SaveScreeningRule(ctx, &rule); err != nil {
		slog.Error("failed to save screening rule", "id", rule.ID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "failed to save rule",
		})
		return
	}

	slog.Info("screening rule created", "id", rule.ID, "name", rule.Name)
	writeJSON(w, http.StatusCreated, map[string]any{
		"rule":    rule,
		"message": "Rule created. Call POST /screening-rules/reload to apply.",
	})
}

// ReloadScreeningRules handles POST /screening-rules/reload. Enables
// hot-reloading rule changes without a restart.
func (h *Handler) ReloadScreeningRules(w http.ResponseWriter, r *http.Request) {
	stored, err := h.repo.ListScreeningRules(r.Context())
	if err != nil {
		slog.Error("failed to list screening rules", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "failed to load rules from database",
		})
		return
	}

	if err := h.engine.ReloadRules(stored); err != nil {
		slog.Error("failed to reload screening rules", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "failed to reload rules: " + err.Error(),
		})
		return
	}

	slog.Info("screening rules reloaded", "count", h.engine.RulesCount())
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "rules reloaded successfully",
		"count":   h.engine.RulesCount(),
	})
}

// Health returns server health status.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	status := "healthy"

	if h.repo != nil {
		if err := h.repo.Ping(r.Context()); err != nil {
			status = "degraded"
		}
	}
	if h.cache != nil {
		if err := h.cache.Ping(r.Context()); err != nil {
			status = "degraded"
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status":  status,
		"version": h.version,
	})
}

// Ready returns whether the server is ready to accept traffic.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"ready": "true",
	})
}

// serveCached writes a cached response body if one exists.
func (h *Handler) serveCached(ctx context.Context, w http.ResponseWriter, key string) bool {
	if h.cache == nil {
		return false
	}
	body, err := h.cache.Get(ctx, key)
	if err != nil || body == nil {
		return false
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Cache", "hit")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
	return true
}

// writeAndCache responds with data and stores the encoded body for
// subsequent identical queries.
func (h *Handler) writeAndCache(ctx context.Context, w http.ResponseWriter, key string, data any) {
	body, err := json.Marshal(data)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "failed to encode response",
		})
		return
	}
	if h.cache != nil {
		if err := h.cache.Set(ctx, key, body, queryCacheTTL); err != nil {
			slog.Warn("failed to cache query result", "key", key, "error", err)
		}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
