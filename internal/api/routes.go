package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"shortform/internal/logs"
	"shortform/internal/queue"
)

// Version reported by the health endpoint.
const Version = "0.1.0"

// NewRouter assembles the API route tree.
func NewRouter(cfg ServerConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware())
	r.Use(RecoveryMiddleware(cfg.Logger))
	r.Use(LoggingMiddleware(cfg.Logger))

	r.Get("/health", healthHandler(cfg))

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(cfg.Token))

		r.Get("/status", statusHandler(cfg))
		r.Get("/queue", listJobsHandler(cfg))
		r.Post("/queue", submitJobHandler(cfg))
		r.Get("/queue/{id}", getJobHandler(cfg))
		r.Delete("/queue/{id}", removeJobHandler(cfg))
		r.Post("/queue/{id}/retry", retryJobHandler(cfg))
		r.Post("/queue/retry", retryAllHandler(cfg))
		r.Post("/queue/clear", clearHandler(cfg))
		r.Get("/logs", logsHandler(cfg))
	})

	return r
}

func healthHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uptime := int64(time.Since(cfg.StartTime).Seconds())
		WriteJSON(w, http.StatusOK, HealthResponse{
			Status:  "ok",
			Version: Version,
			UptimeS: uptime,
		})
	}
}

func statusHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		summary := cfg.Status(r.Context())
		WriteJSON(w, http.StatusOK, statusToResponse(summary, cfg.Store.Path(), os.Getpid()))
	}
}

func listJobsHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		statuses, err := parseStatusFilter(r.URL.Query()["status"])
		if err != nil {
			WriteError(w, http.StatusBadRequest, err.Error(), "BAD_REQUEST")
			return
		}
		jobs, err := cfg.Store.List(r.Context(), statuses...)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "failed to list queue", "INTERNAL_ERROR")
			return
		}
		resp := JobsResponse{Jobs: make([]QueueJob, len(jobs))}
		for i, job := range jobs {
			resp.Jobs[i] = JobToResponse(job)
		}
		WriteJSON(w, http.StatusOK, resp)
	}
}

func submitJobHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SubmitRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}
		if strings.TrimSpace(req.Script) == "" {
			WriteError(w, http.StatusBadRequest, "script is required", "BAD_REQUEST")
			return
		}
		if !json.Valid([]byte(req.Script)) {
			WriteError(w, http.StatusBadRequest, "script must be a JSON document", "BAD_REQUEST")
			return
		}
		job, err := cfg.Store.NewJob(r.Context(), uuid.NewString(), req.Title, req.Script)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "failed to queue job", "INTERNAL_ERROR")
			return
		}
		WriteJSON(w, http.StatusCreated, SubmitResponse{JobID: job.ID})
	}
}

func getJobHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseJobID(w, r)
		if !ok {
			return
		}
		job, err := cfg.Store.GetByID(r.Context(), id)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error(), "INTERNAL_ERROR")
			return
		}
		if job == nil {
			WriteError(w, http.StatusNotFound, "job not found", "NOT_FOUND")
			return
		}
		WriteJSON(w, http.StatusOK, JobToResponse(job))
	}
}

func removeJobHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseJobID(w, r)
		if !ok {
			return
		}
		removed, err := cfg.Store.Remove(r.Context(), id)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error(), "INTERNAL_ERROR")
			return
		}
		if !removed {
			WriteError(w, http.StatusNotFound, "job not found", "NOT_FOUND")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func retryJobHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseJobID(w, r)
		if !ok {
			return
		}
		retried, err := cfg.Store.RetryFailed(r.Context(), id)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error(), "INTERNAL_ERROR")
			return
		}
		if retried == 0 {
			WriteError(w, http.StatusConflict, "job is not in a failed state", "CONFLICT")
			return
		}
		WriteJSON(w, http.StatusOK, RetryResponse{Retried: retried})
	}
}

func retryAllHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		retried, err := cfg.Store.RetryFailed(r.Context())
		if err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error(), "INTERNAL_ERROR")
			return
		}
		WriteJSON(w, http.StatusOK, RetryResponse{Retried: retried})
	}
}

func clearHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var (
			removed int64
			err     error
		)
		switch scope := r.URL.Query().Get("scope"); scope {
		case "", "completed":
			removed, err = cfg.Store.ClearCompleted(r.Context())
		case "failed":
			removed, err = cfg.Store.ClearFailed(r.Context())
		case "all":
			removed, err = cfg.Store.Clear(r.Context())
		default:
			WriteError(w, http.StatusBadRequest, "scope must be completed, failed, or all", "BAD_REQUEST")
			return
		}
		if err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error(), "INTERNAL_ERROR")
			return
		}
		WriteJSON(w, http.StatusOK, ClearResponse{Removed: removed})
	}
}

func logsHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if strings.TrimSpace(cfg.LogDir) == "" {
			WriteError(w, http.StatusNotFound, "log directory not configured", "NOT_FOUND")
			return
		}

		opts := logs.TailOptions{Offset: -1, Limit: 100}
		query := r.URL.Query()
		if raw := query.Get("offset"); raw != "" {
			offset, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				WriteError(w, http.StatusBadRequest, "offset must be an integer", "BAD_REQUEST")
				return
			}
			opts.Offset = offset
		}
		if raw := query.Get("limit"); raw != "" {
			limit, err := strconv.Atoi(raw)
			if err != nil || limit < 0 {
				WriteError(w, http.StatusBadRequest, "limit must be a non-negative integer", "BAD_REQUEST")
				return
			}
			opts.Limit = limit
		}

		result, err := logs.Tail(r.Context(), logs.CurrentPath(cfg.LogDir), opts)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error(), "INTERNAL_ERROR")
			return
		}
		WriteJSON(w, http.StatusOK, LogsResponse{Lines: result.Lines, Offset: result.Offset})
	}
}

func parseJobID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		WriteError(w, http.StatusBadRequest, "job id must be a positive integer", "BAD_REQUEST")
		return 0, false
	}
	return id, true
}

func parseStatusFilter(values []string) ([]queue.Status, error) {
	statuses := make([]queue.Status, 0, len(values))
	for _, value := range values {
		status, ok := queue.ParseStatus(value)
		if !ok {
			return nil, fmt.Errorf("unknown queue status %q", value)
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}
