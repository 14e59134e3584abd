package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-ddd-diary/config"
	"github.com/oksasatya/go-ddd-diary/internal/container"
	"github.com/oksasatya/go-ddd-diary/internal/infrastructure/memory"
	"github.com/oksasatya/go-ddd-diary/internal/infrastructure/metrics"
	"github.com/oksasatya/go-ddd-diary/internal/interface/middleware"
	"github.com/oksasatya/go-ddd-diary/pkg/helpers"
)

func newEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{ClientURL: "http://client.test", OAuthSuccessPath: "/oauth-success", MetricsEnabled: true, ESDiaryIndex: "diary"}
	reg := prometheus.NewRegistry()
	collector := metrics.NewCollector(reg)

	container.SetConfig(cfg)
	container.SetLogger(helpers.NopLogger())
	container.SetTokens(helpers.NewTokenService("router-secret", time.Hour, "diary"))
	container.SetMetrics(reg, collector)
	container.SetPGPool(nil)
	container.SetRedis(nil)
	container.SetES(nil)

	engine := gin.New()
	r := NewRegistry(engine)
	r.Use(middleware.AccessLog(container.GetLogger(), collector))
	st := BuildStores()
	_, isMemory := st.Users.(*memory.UserStore)
	require.True(t, isMemory)
	InitModules(r, BuildServices(st))
	r.RegisterAll()
	return engine
}

func TestRoutesAreMounted(t *testing.T) {
	e := newEngine(t)
	for _, tc := range []struct {
		method, path string
		status       int
	}{
		{http.MethodGet, "/api/health", http.StatusOK},
		{http.MethodGet, "/api/auth/me", http.StatusUnauthorized},
		{http.MethodGet, "/api/diary", http.StatusUnauthorized},
		{http.MethodGet, "/api/diary/search", http.StatusUnauthorized},
		{http.MethodGet, "/api/personal/all", http.StatusUnauthorized},
		{http.MethodGet, "/api/professional-diary/all", http.StatusUnauthorized},
		{http.MethodPatch, "/api/schedule/complete/x", http.StatusUnauthorized},
		{http.MethodGet, "/api/reminders/today", http.StatusUnauthorized},
		{http.MethodGet, "/api/auth/google", http.StatusServiceUnavailable},
		{http.MethodGet, "/api/nope", http.StatusNotFound},
	} {
		w := httptest.NewRecorder()
		e.ServeHTTP(w, httptest.NewRequest(tc.method, tc.path, nil))
		assert.Equal(t, tc.status, w.Code, tc.method+" "+tc.path)
	}
}

func TestMetricsEndpointCountsRequests(t *testing.T) {
	e := newEngine(t)
	w := httptest.NewRecorder()
	e.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/diary", nil))
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	e.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.True(t, strings.Contains(body, `diary_auth_rejected_total{reason="missing"} 1`), body)
	assert.Contains(t, body, `route="/api/diary"`)
}

func TestRegistryAppliesSharedMiddlewareToModules(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	r := NewRegistry(engine)
	r.Use(func(c *gin.Context) { c.Header("X-Shared", "yes") })
	r.Add(pingModule{})
	r.RegisterAll()
	r.LogRoutes(helpers.NopLogger())

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, APIPrefix+"/ping", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "yes", w.Header().Get("X-Shared"))
}

type pingModule struct{}

func (pingModule) Register(rg *gin.RouterGroup) {
	rg.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })
}
