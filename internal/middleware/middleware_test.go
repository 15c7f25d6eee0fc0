package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/iliyamo/filmorate/internal/config"
)

func newEcho(mw ...echo.MiddlewareFunc) *echo.Echo {
	e := echo.New()
	e.Use(mw...)
	e.GET("/users/:id", func(c echo.Context) error {
		return c.String(http.StatusOK, GetRequestID(c))
	})
	e.GET("/panic", func(c echo.Context) error {
		panic("boom")
	})
	e.GET("/fail", func(c echo.Context) error {
		return errors.New("db down")
	})
	return e
}

func serve(e *echo.Echo, path string, header ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRequestID_Generated(t *testing.T) {
	rec := serve(newEcho(RequestID()), "/users/1")
	require.Equal(t, http.StatusOK, rec.Code)
	id := rec.Body.String()
	assert.Len(t, id, 36)
	assert.Equal(t, id, rec.Header().Get(RequestIDHeader))
}

func TestRequestID_Provided(t *testing.T) {
	rec := serve(newEcho(RequestID()), "/users/1", RequestIDHeader, "abc-123")
	assert.Equal(t, "abc-123", rec.Body.String())
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
}

func TestLogger_RecordsRequest(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	e := newEcho(RequestID(), Logger(zap.New(core)))

	serve(e, "/users/7")
	serve(e, "/fail")

	entries := logs.All()
	require.Len(t, entries, 2)
	first := entries[0].ContextMap()
	assert.Equal(t, "/users/:id", first["route"])
	assert.EqualValues(t, 200, first["status"])
	assert.NotEmpty(t, first["request_id"])

	assert.Equal(t, zap.ErrorLevel, entries[1].Level)
	assert.EqualValues(t, 500, entries[1].ContextMap()["status"])
}

func TestRecovery_TurnsPanicInto500(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	rec := serve(newEcho(Recovery(zap.New(core))), "/panic")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, 1, logs.FilterMessage("panic recovered").Len())
}

func TestMetrics_PassesThrough(t *testing.T) {
	rec := serve(newEcho(Metrics()), "/users/3")
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = serve(newEcho(Metrics()), "/fail")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestTokenBucket_DisabledIsPassThrough(t *testing.T) {
	cfg := config.RateLimitConfig{Enabled: false}
	rec := serve(newEcho(NewTokenBucket(cfg, nil, nil)), "/users/1")
	assert.Equal(t, http.StatusOK, rec.Code)

	cfg.Enabled = true
	rec = serve(newEcho(NewTokenBucket(cfg, nil, nil)), "/users/1")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("X-RateLimit-Limit"))
}

func TestTokenBucket_FailsOpenWhenRedisUnreachable(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer rdb.Close()
	cfg := config.RateLimitConfig{Enabled: true, Capacity: 1, RefillTokens: 1, RefillInterval: time.Second, TTL: time.Minute, Prefix: "rl"}

	rec := serve(newEcho(NewTokenBucket(cfg, rdb, nil)), "/users/1")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestBuildRateKey(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPut, "/films/1/like/2", nil)
	req.Header.Set(echo.HeaderXRealIP, "10.0.0.1")
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/films/:id/like/:userId")

	tests := map[string]string{
		"ip":       "rl:ip:10.0.0.1",
		"route":    "rl:route:PUT /films/:id/like/:userId",
		"ip_route": "rl:ip:10.0.0.1:route:PUT /films/:id/like/:userId",
		"":         "rl:ip:10.0.0.1:route:PUT /films/:id/like/:userId",
	}
	for strategy, want := range tests {
		cfg := config.RateLimitConfig{Prefix: "rl", KeyStrategy: strategy}
		assert.Equal(t, want, buildRateKey(cfg, c), strategy)
	}
}

func TestAsInt64(t *testing.T) {
	assert.EqualValues(t, 5, asInt64(int64(5)))
	assert.EqualValues(t, 7, asInt64("7"))
	assert.EqualValues(t, 2, asInt64(2.9))
	assert.EqualValues(t, 0, asInt64(nil))
}
