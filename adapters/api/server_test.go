package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"simrng/app"
	"simrng/internal/logging"
	"simrng/internal/metrics"
	"simrng/internal/session"
)

type testEnv struct {
	api   http.Handler
	admin http.Handler
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	store := session.NewStore()
	m := metrics.New()
	jobs := app.NewJobs(2, m)
	generation := app.NewGenerationService(store, jobs, m, logging.Nop(), 10000, 30)
	statistics := app.NewStatisticsService(store, jobs, nil, m, logging.Nop(), app.StatisticsOptions{Workers: 2})
	server := NewServer(Options{GinMode: gin.TestMode, CORSOrigins: []string{"http://localhost:5173"}}, generation, statistics, logging.Nop())
	return testEnv{
		api:   server.Handler(),
		admin: NewAdminRouter(m.Registry, generation),
	}
}

func do(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestGenerateAndRead(t *testing.T) {
	env := newTestEnv(t)

	w := do(env.api, http.MethodPost, "/api/generate",
		`{"seed": 9, "count": 1000, "distribution": {"kind": "uniform", "lower": 0, "upper": 1}}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	gen := decode(t, w)
	assert.Equal(t, float64(1000), gen["count"])
	assert.Len(t, gen["numbers"], 30)

	w = do(env.api, http.MethodGet, "/api/histogram?intervals=10", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	hist := decode(t, w)
	assert.Len(t, hist["bin_counts"], 10)
	assert.Len(t, hist["bin_midpoints"], 10)
	assert.InDelta(t, 0.1, hist["bin_width"], 1e-12)

	w = do(env.api, http.MethodGet, "/api/statistics?intervals=10", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	stats := decode(t, w)
	test := stats["test"].(map[string]interface{})
	assert.InDelta(t, 16.919, test["critical"], 1e-3)
	assert.Contains(t, test, "calculated")
	assert.Contains(t, test, "merged_intervals")

	w = do(env.api, http.MethodGet, "/api/numbers?page=34", "")
	require.Equal(t, http.StatusOK, w.Code)
	page := decode(t, w)
	assert.Len(t, page["numbers"], 10)

	w = do(env.api, http.MethodGet, "/api/numbers?page=99", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode(t, w)["numbers"])

	w = do(env.api, http.MethodGet, "/api/summary", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1000), decode(t, w)["count"])
}

func TestLegacyEndpoints(t *testing.T) {
	env := newTestEnv(t)
	bodies := map[string]string{
		"/api/uniform":     `{"seed": 1, "count": 50, "lower": 2, "upper": 4}`,
		"/api/normal-bm":   `{"seed": 1, "count": 51, "mean": 0, "sd": 1}`,
		"/api/normal-conv": `{"seed": 1, "count": 50, "mean": 0, "sd": 1}`,
		"/api/exponential": `{"seed": 1, "count": 50, "lambda": 2}`,
		"/api/poisson":     `{"seed": 1, "count": 50, "lambda": 3}`,
	}
	for path, body := range bodies {
		w := do(env.api, http.MethodPost, path, body)
		assert.Equal(t, http.StatusOK, w.Code, "%s: %s", path, w.Body.String())
	}

	w := do(env.api, http.MethodPost, "/api/exponential", `{"seed": 1, "count": 50, "lambda": 0}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_INPUT", decode(t, w)["code"])
}

func TestErrorResponses(t *testing.T) {
	env := newTestEnv(t)

	w := do(env.api, http.MethodGet, "/api/statistics?intervals=5", "")
	assert.Equal(t, http.StatusConflict, w.Code)
	body := decode(t, w)
	assert.Equal(t, "NO_GENERATION", body["code"])
	assert.NotEmpty(t, body["error"])

	w = do(env.api, http.MethodGet, "/api/histogram", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(env.api, http.MethodPost, "/api/generate", `{"seed": 1, "count": 20000, "distribution": {"kind": "poisson", "lambda": 1}}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(env.api, http.MethodPost, "/api/generate", `not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(env.api, http.MethodPost, "/api/generate", `{"seed": 1, "count": 10, "distribution": {"kind": "uniform", "lower": 0, "upper": 1}}`)
	require.Equal(t, http.StatusOK, w.Code)
	w = do(env.api, http.MethodGet, "/api/histogram?intervals=11", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_INTERVAL_COUNT", decode(t, w)["code"])
}

func TestExportAndReport(t *testing.T) {
	env := newTestEnv(t)
	w := do(env.api, http.MethodPost, "/api/generate", `{"seed": 4, "count": 300, "distribution": {"kind": "exponential", "lambda": 1}}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(env.api, http.MethodGet, "/api/export.xlsx?intervals=6", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("PK")), "xlsx is a zip archive")

	w = do(env.api, http.MethodGet, "/api/report?intervals=6", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Exponential(lambda=1)")
}

func TestCORS(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/generate", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	env.api.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/summary", nil)
	req.Header.Set("Origin", "http://evil.example")
	w = httptest.NewRecorder()
	env.api.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestAdminRouter(t *testing.T) {
	env := newTestEnv(t)

	w := do(env.admin, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decode(t, w)["generation"])

	do(env.api, http.MethodPost, "/api/generate", `{"seed": 4, "count": 10, "distribution": {"kind": "uniform", "lower": 0, "upper": 1}}`)
	w = do(env.admin, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "simrng_generated_samples_total 10")

	w = do(env.admin, http.MethodGet, "/debug/pprof/", "")
	assert.Equal(t, http.StatusOK, w.Code)
}
