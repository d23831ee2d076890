package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talentsift/resume-parser/internal/adapter/httpserver"
	"github.com/talentsift/resume-parser/internal/config"
)

func TestParseOrigins(t *testing.T) {
	assert.Equal(t, []string{"*"}, ParseOrigins(""))
	assert.Equal(t, []string{"*"}, ParseOrigins("*"))
	assert.Equal(t, []string{"https://a.example", "https://b.example"},
		ParseOrigins(" https://a.example, https://b.example ,"))
}

func TestRouterHealthAndMetrics(t *testing.T) {
	cfg := config.Config{AppEnv: "test", RateLimitPerMin: 30, MaxUploadMB: 10}
	h := BuildRouter(cfg, &httpserver.Server{Cfg: cfg})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouterUnknownRoute(t *testing.T) {
	cfg := config.Config{AppEnv: "test", RateLimitPerMin: 30}
	h := BuildRouter(cfg, &httpserver.Server{Cfg: cfg})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReadinessChecksNilDeps(t *testing.T) {
	db, rds, kafka := BuildReadinessChecks(nil, nil, nil)
	require.NotNil(t, db)
	assert.Nil(t, rds)
	require.NotNil(t, kafka)
	assert.Error(t, db(context.Background()))
	assert.Error(t, kafka(context.Background()))
}
