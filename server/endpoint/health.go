package endpoint

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/livescribe/component"
	"github.com/kbukum/livescribe/observability"
	"github.com/kbukum/livescribe/version"
)

// HealthChecker returns health status for registered components.
type HealthChecker func(ctx context.Context) []component.Health

// Health returns a handler that aggregates component health into a service
// report. Any down component takes the service down (503); degraded
// components degrade it.
func Health(serviceName string, checker HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		sh := observability.NewServiceHealth(serviceName, version.Version)
		if checker != nil {
			for _, ch := range checker(c.Request.Context()) {
				sh.AddComponent(observability.Health{
					Name:    ch.Name,
					Status:  healthStatus(ch.Status),
					Message: ch.Message,
				})
			}
		}

		httpStatus := http.StatusOK
		if sh.Status == observability.HealthStatusDown {
			httpStatus = http.StatusServiceUnavailable
		}

		c.JSON(httpStatus, gin.H{
			"status":     sh.Status,
			"service":    sh.Service,
			"version":    sh.Version,
			"timestamp":  time.Now().UTC().Format(time.RFC3339),
			"components": sh.Components,
		})
	}
}

// healthStatus maps a component lifecycle status onto the wire vocabulary.
func healthStatus(s component.HealthStatus) observability.HealthStatus {
	switch s {
	case component.StatusUnhealthy:
		return observability.HealthStatusDown
	case component.StatusDegraded:
		return observability.HealthStatusDegraded
	default:
		return observability.HealthStatusUp
	}
}
