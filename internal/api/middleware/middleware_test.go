package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(handlers...)
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	return r
}

func get(r http.Handler, method, remote string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/ping", nil)
	req.RemoteAddr = remote
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(0.001, 2)
	r := newRouter(rl.Middleware())

	assert.Equal(t, http.StatusOK, get(r, http.MethodGet, "10.0.0.1:1234").Code)
	assert.Equal(t, http.StatusOK, get(r, http.MethodGet, "10.0.0.1:1234").Code)

	w := get(r, http.MethodGet, "10.0.0.1:1234")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	var body map[string]map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "RATE_LIMITED", body["error"]["code"])

	// other clients have their own bucket
	assert.Equal(t, http.StatusOK, get(r, http.MethodGet, "10.0.0.2:1234").Code)
	assert.Equal(t, 2, rl.Clients())
}

func TestRateLimiterSharesLimiterPerKey(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	a, _ := rl.bucket("a")
	again, _ := rl.bucket("a")
	b, _ := rl.bucket("b")
	assert.Same(t, a, again)
	assert.NotSame(t, a, b)
}

func TestRateLimiterPrune(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(1, 1)
	rl.now = func() time.Time { return now }

	rl.bucket("old")
	now = now.Add(5 * time.Minute)
	rl.bucket("recent")

	now = now.Add(2 * time.Minute)
	assert.Equal(t, 1, rl.Prune(6*time.Minute))
	assert.Equal(t, 1, rl.Clients())

	// buckets idle past the timeout are dropped on the next request
	now = now.Add(ClientIdleTimeout + time.Second)
	rl.bucket("new")
	assert.Equal(t, 1, rl.Clients())
}

func TestCORS(t *testing.T) {
	r := newRouter(CORS())

	w := get(r, http.MethodGet, "10.0.0.1:1")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	// preflight is answered without reaching a handler
	w = get(r, http.MethodOptions, "10.0.0.1:1")
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestRequestLogger(t *testing.T) {
	r := newRouter(RequestLogger())
	assert.Equal(t, http.StatusOK, get(r, http.MethodGet, "10.0.0.1:1").Code)
}
