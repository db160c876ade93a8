package rest

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/palemoky/songbook-catalog/internal/config"
	"github.com/palemoky/songbook-catalog/internal/testutil"
)

func TestSetupRouterRoutes(t *testing.T) {
	db, repo := testutil.SetupTestDB(t)
	router := SetupRouter(&config.Config{Server: config.ServerConfig{Mode: "test"}}, db, repo)

	routes := map[string]bool{}
	for _, r := range router.Routes() {
		routes[r.Method+" "+r.Path] = true
	}

	for _, want := range []string{
		"GET /api/v1/health",
		"GET /api/v1/stats",
		"GET /api/v1/books",
		"GET /api/v1/books/random",
		"GET /api/v1/books/:id",
		"GET /api/v1/songs",
		"GET /api/v1/songs/advanced",
		"GET /api/v1/songs/:id",
		"GET /api/v1/search",
	} {
		assert.True(t, routes[want], want)
	}
}

func TestSetupRouterRateLimit(t *testing.T) {
	db, repo := testutil.SetupTestDB(t)
	cfg := &config.Config{
		Server:    config.ServerConfig{Mode: "test"},
		RateLimit: config.RateLimitConfig{Enabled: true, RequestsPerSecond: 0.001, Burst: 1},
	}
	router := SetupRouter(cfg, db, repo)

	codes := make([]int, 2)
	for i := range codes {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
		codes[i] = w.Code
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusTooManyRequests}, codes)
}
