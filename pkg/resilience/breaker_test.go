package resilience

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errUpstream = errors.New("upstream failure")

func failing(ctx context.Context) (interface{}, error) {
	return nil, errUpstream
}

func testSettings(name string, failures uint32) Settings {
	return Settings{Name: name, FailureThreshold: failures}
}

func TestPresets(t *testing.T) {
	model := ModelSettings()
	assert.Equal(t, "openai", model.Name)
	assert.Equal(t, uint32(5), model.FailureThreshold)
	assert.Equal(t, 30*time.Second, model.Timeout)

	sms := SMSSettings()
	assert.Equal(t, "twilio", sms.Name)
	assert.Equal(t, uint32(3), sms.FailureThreshold)
	assert.Equal(t, time.Minute, sms.Timeout)
}

func TestSettings_WithDefaults(t *testing.T) {
	s := Settings{}.withDefaults()

	assert.Equal(t, "breaker", s.Name)
	assert.Equal(t, time.Minute, s.Interval)
	assert.Equal(t, 30*time.Second, s.Timeout)
	assert.Equal(t, uint32(5), s.FailureThreshold)
	assert.Equal(t, uint32(1), s.SuccessThreshold)
}

func TestCircuitBreaker_PassesThroughResult(t *testing.T) {
	cb := NewCircuitBreaker(testSettings("test-pass", 2), nil)

	result, err := cb.Execute(context.Background(), func(ctx context.Context) (interface{}, error) {
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", result)
	assert.Equal(t, gobreaker.StateClosed, cb.State())
	assert.Equal(t, "test-pass", cb.Name())
}

func TestCircuitBreaker_OpensAfterThreshold(t *testing.T) {
	cb := NewCircuitBreaker(testSettings("test-open", 2), nil)

	for i := 0; i < 2; i++ {
		_, err := cb.Execute(context.Background(), failing)
		assert.ErrorIs(t, err, errUpstream)
	}

	assert.Equal(t, gobreaker.StateOpen, cb.State())

	_, err := cb.Execute(context.Background(), failing)
	assert.ErrorIs(t, err, ErrCircuitOpen)
}

func TestCircuitBreaker_CustomFallbackWhenOpen(t *testing.T) {
	fallback := func(ctx context.Context, err error) (interface{}, error) {
		return "cached", nil
	}
	cb := NewCircuitBreaker(testSettings("test-fallback", 1), fallback)

	_, err := cb.Execute(context.Background(), failing)
	require.ErrorIs(t, err, errUpstream)

	result, err := cb.Execute(context.Background(), failing)
	require.NoError(t, err)
	assert.Equal(t, "cached", result)
}

func TestCircuitBreaker_Degraded(t *testing.T) {
	cb := NewCircuitBreaker(testSettings("test-degrade", 1), Degraded("openai"))

	_, _ = cb.Execute(context.Background(), failing)
	_, err := cb.Execute(context.Background(), failing)

	assert.ErrorIs(t, err, ErrCircuitOpen)
}

func TestCircuitBreaker_CancelledContext(t *testing.T) {
	cb := NewCircuitBreaker(testSettings("test-cancel", 1), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	_, err := cb.Execute(ctx, func(ctx context.Context) (interface{}, error) {
		called = true
		return nil, nil
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
	assert.Equal(t, gobreaker.StateClosed, cb.State())
}

func TestCircuitBreaker_ExportsMetrics(t *testing.T) {
	cb := NewCircuitBreaker(testSettings("test-metrics", 1), nil)
	_, _ = cb.Execute(context.Background(), failing)
	_, _ = cb.Execute(context.Background(), failing)

	rec := httptest.NewRecorder()
	promhttp.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body := rec.Body.String()

	assert.Contains(t, body, `circuit_breaker_calls_total{breaker="test-metrics",result="failure"} 1`)
	assert.Contains(t, body, `circuit_breaker_calls_total{breaker="test-metrics",result="rejected"} 1`)
	assert.Contains(t, body, `circuit_breaker_state{breaker="test-metrics"} 1`)
	assert.Contains(t, body, `circuit_breaker_state_changes_total{breaker="test-metrics",from="closed",to="open"} 1`)
}
