package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"

	"github.com/ubqurrotul/koperasi-backend/pkg/config"
	"github.com/ubqurrotul/koperasi-backend/pkg/metrics"
)

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "8080"},
		JWT: config.JWTConfig{Secret: "test-secret-test-secret-test-secret", Issuer: "koperasi-test", ExpirationMinutes: 30},
	}
}

func newTestRouter() http.Handler {
	reg := prometheus.NewRegistry()
	return NewRouter(testConfig(), nil, Services{}, Deps{
		HTTPMetrics: metrics.NewHTTPMetrics(reg),
	})
}

func TestHealthLive(t *testing.T) {
	router := newTestRouter()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "test", rec.Header().Get("X-Koperasi-Env"))
	assert.Contains(t, rec.Body.String(), "live")
}

func TestHealthReadySkipsNilDependencies(t *testing.T) {
	router := newTestRouter()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ready")
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	router := newTestRouter()
	for _, path := range []string{
		"/api/v1/members/me",
		"/api/v1/transactions",
		"/api/v1/products",
		"/api/v1/news",
		"/api/v1/shu/config",
		"/api/v1/backup/export",
	} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}
}

func TestMetricsEndpointExposed(t *testing.T) {
	router := newTestRouter()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
