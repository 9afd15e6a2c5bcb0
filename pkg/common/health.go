package common

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

const (
	statusHealthy   = "healthy"
	statusUnhealthy = "unhealthy"

	readinessTimeout = 3 * time.Second
)

// HealthResponse is the body of /healthz and /health/ready
type HealthResponse struct {
	Status    string            `json:"status"`
	Service   string            `json:"service"`
	Version   string            `json:"version"`
	Timestamp time.Time         `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// DependencyCheck probes one backing service
type DependencyCheck func(ctx context.Context) error

// HealthCheck answers liveness probes without touching dependencies
func HealthCheck(serviceName, version string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, HealthResponse{
			Status:    statusHealthy,
			Service:   serviceName,
			Version:   version,
			Timestamp: time.Now().UTC(),
		})
	}
}

// HealthCheckWithDeps runs every check in parallel under one deadline and
// answers 503 when any of them fails.
func HealthCheckWithDeps(serviceName, version string, checks map[string]DependencyCheck) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
		defer cancel()

		var (
			mu      sync.Mutex
			results = make(map[string]string, len(checks))
			g       errgroup.Group
		)
		for name, check := range checks {
			g.Go(func() error {
				result := statusHealthy
				if err := check(ctx); err != nil {
					result = statusUnhealthy + ": " + err.Error()
				}
				mu.Lock()
				results[name] = result
				mu.Unlock()
				return nil
			})
		}
		_ = g.Wait()

		status, code := statusHealthy, http.StatusOK
		for _, result := range results {
			if result != statusHealthy {
				status, code = statusUnhealthy, http.StatusServiceUnavailable
				break
			}
		}

		c.JSON(code, HealthResponse{
			Status:    status,
			Service:   serviceName,
			Version:   version,
			Timestamp: time.Now().UTC(),
			Checks:    results,
		})
	}
}
