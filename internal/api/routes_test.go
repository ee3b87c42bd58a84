package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"shortform/internal/api"
	"shortform/internal/logging"
	"shortform/internal/logs"
	"shortform/internal/queue"
	"shortform/internal/testsupport"
	"shortform/internal/workflow"
)

func newTestRouter(t *testing.T, token string) (*queue.Store, http.Handler) {
	t.Helper()
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	router := api.NewRouter(api.ServerConfig{
		Token:  token,
		Store:  store,
		Status: func(context.Context) workflow.StatusSummary { return workflow.StatusSummary{Running: true} },
		Logger: logging.NewNop(),
	})
	return store, router
}

func TestHealthEndpointUnauthenticated(t *testing.T) {
	_, router := newTestRouter(t, "secret")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("health status = %d, want 200", rec.Code)
	}
	var resp api.HealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode health: %v", err)
	}
	if resp.Status != "ok" {
		t.Fatalf("health status field %q", resp.Status)
	}
}

func TestAuthRequired(t *testing.T) {
	_, router := newTestRouter(t, "secret")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/queue", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("unauthenticated list status = %d, want 401", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/queue", nil)
	req.Header.Set("Authorization", "Bearer secret")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("authenticated list status = %d, want 200", rec.Code)
	}
}

func TestSubmitAndGetJob(t *testing.T) {
	_, router := newTestRouter(t, "")

	body, _ := json.Marshal(api.SubmitRequest{
		Title:  "Test Video",
		Script: `{"title":"Test Video","body":"Some narration text."}`,
	})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/queue", bytes.NewReader(body)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("submit status = %d: %s", rec.Code, rec.Body.String())
	}
	var submitted api.SubmitResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &submitted); err != nil {
		t.Fatalf("decode submit: %v", err)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/queue/%d", submitted.JobID), nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}
	var job api.QueueJob
	if err := json.Unmarshal(rec.Body.Bytes(), &job); err != nil {
		t.Fatalf("decode job: %v", err)
	}
	if job.Title != "Test Video" || job.Status != string(queue.StatusPending) {
		t.Fatalf("unexpected job payload: %+v", job)
	}
}

func TestSubmitRejectsInvalidScript(t *testing.T) {
	_, router := newTestRouter(t, "")

	body, _ := json.Marshal(api.SubmitRequest{Title: "Bad", Script: "not json"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/queue", bytes.NewReader(body)))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("submit status = %d, want 400", rec.Code)
	}
}

func TestRetryFailedJob(t *testing.T) {
	store, router := newTestRouter(t, "")
	job := testsupport.NewJob(t, store, "Broken", "{}")
	job.SetFailed("synthesis failed")
	if err := store.Update(context.Background(), job); err != nil {
		t.Fatalf("update: %v", err)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, fmt.Sprintf("/queue/%d/retry", job.ID), nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("retry status = %d: %s", rec.Code, rec.Body.String())
	}

	reloaded, err := store.GetByID(context.Background(), job.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if reloaded.Status != queue.StatusPending {
		t.Fatalf("status after retry = %s, want pending", reloaded.Status)
	}
}

func TestRetryNonFailedJobConflicts(t *testing.T) {
	store, router := newTestRouter(t, "")
	job := testsupport.NewJob(t, store, "Fresh", "{}")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, fmt.Sprintf("/queue/%d/retry", job.ID), nil))
	if rec.Code != http.StatusConflict {
		t.Fatalf("retry status = %d, want 409", rec.Code)
	}
}

func TestClearScopeValidation(t *testing.T) {
	_, router := newTestRouter(t, "")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/queue/clear?scope=bogus", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("clear status = %d, want 400", rec.Code)
	}
}

func TestStatusEndpoint(t *testing.T) {
	_, router := newTestRouter(t, "")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp api.StatusResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if !resp.Running {
		t.Fatal("expected running=true from summary")
	}
}

func TestLogsEndpoint(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	logDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(logDir, logs.CurrentLogName), []byte("first\nsecond\nthird\n"), 0o644); err != nil {
		t.Fatalf("write log file: %v", err)
	}
	router := api.NewRouter(api.ServerConfig{
		Store:  store,
		Status: func(context.Context) workflow.StatusSummary { return workflow.StatusSummary{} },
		Logger: logging.NewNop(),
		LogDir: logDir,
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/logs?limit=2", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("logs status = %d: %s", rec.Code, rec.Body.String())
	}
	var resp api.LogsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode logs: %v", err)
	}
	if len(resp.Lines) != 2 || resp.Lines[0] != "second" || resp.Lines[1] != "third" {
		t.Fatalf("lines = %v, want last two", resp.Lines)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/logs?offset=bogus", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad offset status = %d, want 400", rec.Code)
	}
}

func TestLogsEndpointWithoutLogDir(t *testing.T) {
	_, router := newTestRouter(t, "")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/logs", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("logs status = %d, want 404", rec.Code)
	}
}

func TestListRejectsUnknownStatusFilter(t *testing.T) {
	_, router := newTestRouter(t, "")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/queue?status=exploded", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
