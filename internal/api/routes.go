package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"reelcap/internal/logging"
	"reelcap/internal/overlay"
	"reelcap/internal/runstore"
	"reelcap/internal/services"
	"reelcap/internal/textmetrics"
	"reelcap/internal/transcript"
)

const (
	maxPlanBodyBytes = 8 << 20
	defaultRunsLimit = 50
	maxRunsLimit     = 500
	defaultWidth     = 1080
	defaultHeight    = 1920
)

// NewRouter wires the API routes.
func NewRouter(cfg ServerConfig) *chi.Mux {
	return newRouter(cfg.withDefaults())
}

func newRouter(cfg ServerConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware())
	r.Use(RecoveryMiddleware(cfg.Logger))
	r.Use(LoggingMiddleware(cfg.Logger))

	r.Get("/health", healthHandler(cfg))

	r.Route("/v1", func(r chi.Router) {
		r.Post("/plan", planHandler(cfg))
		r.Get("/runs", listRunsHandler(cfg))
		r.Get("/runs/{id}", getRunHandler(cfg))
	})

	return r
}

func healthHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, HealthResponse{
			Status:  "ok",
			Version: cfg.Version,
			UptimeS: int64(time.Since(cfg.StartTime).Seconds()),
		})
	}
}

func planHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req PlanRequest
		decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxPlanBodyBytes))
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body: "+err.Error(), CodeBadRequest)
			return
		}
		if len(bytes.TrimSpace(req.Transcript)) == 0 {
			WriteError(w, http.StatusBadRequest, "transcript is required", CodeBadRequest)
			return
		}
		if req.Width == 0 {
			req.Width = defaultWidth
		}
		if req.Height == 0 {
			req.Height = defaultHeight
		}

		segments, err := transcript.Decode(bytes.NewReader(req.Transcript))
		if err != nil {
			writeServiceError(w, err)
			return
		}

		captionsCfg := cfg.Config.Captions
		if req.Highlight != nil {
			captionsCfg.HighlightCurrentWord = *req.Highlight
		}
		if req.LineCount != nil {
			if *req.LineCount <= 0 {
				WriteError(w, http.StatusBadRequest, "line_count must be positive", CodeBadRequest)
				return
			}
			captionsCfg.LineCount = *req.LineCount
		}

		fontPath, err := textmetrics.ResolveFont(captionsCfg.Font, cfg.Config.Paths.FontDir)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		engine, err := overlay.NewEngine(cfg.Fonts, nil, overlay.StyleFromConfig(captionsCfg, fontPath),
			overlay.Options{
				LayoutMaxEntries: cfg.Config.Cache.LayoutMaxEntries,
				ShadowMaxEntries: cfg.Config.Cache.ShadowMaxEntries,
			}, cfg.Logger)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		plan, err := engine.Build(r.Context(), segments, overlay.Frame{Width: req.Width, Height: req.Height})
		if err != nil {
			writeServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, PlanToResponse(plan))
	}
}

func listRunsHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cfg.Store == nil {
			WriteError(w, http.StatusServiceUnavailable, "run history is not available", CodeUnavailable)
			return
		}
		limit := defaultRunsLimit
		if raw := r.URL.Query().Get("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed <= 0 {
				WriteError(w, http.StatusBadRequest, "limit must be a positive integer", CodeBadRequest)
				return
			}
			limit = min(parsed, maxRunsLimit)
		}
		var statuses []runstore.Status
		for _, raw := range r.URL.Query()["status"] {
			for _, part := range strings.Split(raw, ",") {
				if strings.TrimSpace(part) == "" {
					continue
				}
				status, ok := runstore.ParseStatus(part)
				if !ok {
					WriteError(w, http.StatusBadRequest, fmt.Sprintf("unknown status %q", part), CodeBadRequest)
					return
				}
				statuses = append(statuses, status)
			}
		}

		runs, err := cfg.Store.List(r.Context(), limit, statuses...)
		if err != nil {
			logging.ErrorWithContext(logging.WithContext(r.Context(), cfg.Logger), "failed to list runs", "runstore_query_failed",
				logging.Error(err))
			WriteError(w, http.StatusInternalServerError, "failed to list runs", CodeInternal)
			return
		}
		resp := RunsResponse{Runs: make([]RunResponse, 0, len(runs))}
		for _, run := range runs {
			resp.Runs = append(resp.Runs, RunToResponse(run))
		}
		WriteJSON(w, http.StatusOK, resp)
	}
}

func getRunHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cfg.Store == nil {
			WriteError(w, http.StatusServiceUnavailable, "run history is not available", CodeUnavailable)
			return
		}
		run, err := cfg.Store.Get(r.Context(), chi.URLParam(r, "id"))
		if errors.Is(err, runstore.ErrRunNotFound) {
			WriteError(w, http.StatusNotFound, "run not found", CodeNotFound)
			return
		}
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "failed to load run", CodeInternal)
			return
		}
		WriteJSON(w, http.StatusOK, RunToResponse(run))
	}
}

// writeServiceError maps service error markers onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		WriteError(w, http.StatusBadRequest, err.Error(), CodeBadRequest)
	case errors.Is(err, services.ErrNotFound), errors.Is(err, services.ErrConfiguration):
		WriteError(w, http.StatusInternalServerError, err.Error(), CodeConfiguration)
	default:
		WriteError(w, http.StatusInternalServerError, err.Error(), CodeInternal)
	}
}
