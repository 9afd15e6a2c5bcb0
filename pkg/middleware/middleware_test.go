package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/richxcame/restaurant-backoffice/pkg/config"
	"github.com/richxcame/restaurant-backoffice/pkg/logger"
	"github.com/richxcame/restaurant-backoffice/pkg/ratelimit"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestCorrelationID_GeneratesAndPropagates(t *testing.T) {
	router := gin.New()
	router.Use(CorrelationID())

	var fromRequestCtx, fromGin string
	router.GET("/ping", func(c *gin.Context) {
		fromRequestCtx = logger.CorrelationIDFromContext(c.Request.Context())
		fromGin = GetCorrelationID(c)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	header := w.Header().Get(CorrelationIDHeader)
	assert.NotEmpty(t, header)
	assert.Equal(t, header, fromRequestCtx)
	assert.Equal(t, header, fromGin)
}

func TestCorrelationID_KeepsIncomingHeader(t *testing.T) {
	router := gin.New()
	router.Use(CorrelationID())
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(CorrelationIDHeader, "req-123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "req-123", w.Header().Get(CorrelationIDHeader))
}

func TestCorrelationID_ReplacesUnsafeHeader(t *testing.T) {
	router := gin.New()
	router.Use(CorrelationID())
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, incoming := range []string{"bad id\nwith newline", strings.Repeat("a", 200)} {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set(CorrelationIDHeader, incoming)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		got := w.Header().Get(CorrelationIDHeader)
		assert.NotEqual(t, incoming, got)
		_, err := uuid.Parse(got)
		assert.NoError(t, err)
	}
}

func TestRecovery_ReturnsInternalError(t *testing.T) {
	router := gin.New()
	router.Use(Recovery())
	router.GET("/panic", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), `"success":false`)
}

func TestRequestLogger_LevelFollowsStatus(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	previous := logger.Get()
	logger.SetLogger(zap.New(core))
	t.Cleanup(func() { logger.SetLogger(previous) })

	router := gin.New()
	router.Use(RequestLogger())
	router.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/api/reviews/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	router.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	for _, path := range []string{"/healthz", "/api/reviews/7", "/boom"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	entries := logs.All()
	if assert.Len(t, entries, 2) {
		assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
		assert.Equal(t, "/api/reviews/:id", entries[0].ContextMap()["route"])
		assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
	}
}

func TestSecurityHeaders(t *testing.T) {
	tests := []struct {
		name        string
		environment string
		path        string
		wantHSTS    bool
		wantCSP     bool
	}{
		{"development api", "development", "/api/receipts", false, true},
		{"production api", "production", "/api/receipts", true, true},
		{"uploaded image", "development", "/uploads/receipts/a.jpg", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(SecurityHeaders(tt.environment))
			router.GET("/*any", func(c *gin.Context) { c.Status(http.StatusOK) })

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
			assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
			assert.Equal(t, tt.wantHSTS, w.Header().Get("Strict-Transport-Security") != "")
			assert.Equal(t, tt.wantCSP, w.Header().Get("Content-Security-Policy") != "")
		})
	}
}

func scrape(t *testing.T) string {
	t.Helper()
	w := httptest.NewRecorder()
	promhttp.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	return w.Body.String()
}

func TestMetrics_RecordsRouteTemplate(t *testing.T) {
	router := gin.New()
	router.Use(Metrics("metrics-test"))
	router.GET("/api/items/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/metrics", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/items/7", nil))
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body := scrape(t)
	assert.Contains(t, body, `http_requests_total{method="GET",route="/api/items/:id",service="metrics-test",status="200"} 1`)
	assert.Contains(t, body, `http_requests_in_flight{service="metrics-test"} 0`)
	assert.NotContains(t, body, `route="/metrics",service="metrics-test"`)
}

type bindTarget struct {
	Name   string `json:"name" validate:"required"`
	Rating int    `json:"rating" validate:"gte=1,lte=5"`
}

func TestValidateAndBind(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{"valid", `{"name":"Ana","rating":5}`, http.StatusOK},
		{"malformed json", `{"name":`, http.StatusBadRequest},
		{"failed rule", `{"name":"Ana","rating":9}`, http.StatusBadRequest},
		{"oversized body", `{"name":"` + strings.Repeat("x", 256) + `","rating":5}`, http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(MaxBodySize(128))
			router.POST("/bind", func(c *gin.Context) {
				var req bindTarget
				if !ValidateAndBind(c, &req) {
					return
				}
				c.Status(http.StatusOK)
			})

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/bind", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestRateLimit_RejectsOverLimit(t *testing.T) {
	client, mock := redismock.NewClientMock()
	now := time.Date(2025, 6, 15, 12, 0, 30, 0, time.UTC)
	limiter := ratelimit.NewLimiter(client, config.RateLimitConfig{
		Enabled: true, Limit: 1, WindowSeconds: 60, RedisPrefix: "rl",
	}).WithNow(func() time.Time { return now })

	mock.Regexp().ExpectIncr(`rl:/api/receipts:.*`).SetVal(2)

	router := gin.New()
	router.POST("/api/receipts", RateLimit(limiter), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/receipts", nil))

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "30", w.Header().Get("Retry-After"))
}

func TestRateLimit_FailsOpen(t *testing.T) {
	client, mock := redismock.NewClientMock()
	limiter := ratelimit.NewLimiter(client, config.RateLimitConfig{
		Enabled: true, Limit: 1, WindowSeconds: 60, RedisPrefix: "rl",
	})

	mock.Regexp().ExpectIncr(`rl:.*`).SetErr(assert.AnError)

	router := gin.New()
	router.POST("/api/reviews", RateLimit(limiter), func(c *gin.Context) { c.Status(http.StatusCreated) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/reviews", nil))

	assert.Equal(t, http.StatusCreated, w.Code)
}
