package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthCheck reports whether a backing service is reachable.
type HealthCheck func(ctx context.Context) error

type IHealthHandler interface {
	Healthz(ctx *gin.Context)
}

type HealthHandler struct {
	checks map[string]HealthCheck
}

func NewHealthHandler(checks map[string]HealthCheck) IHealthHandler {
	return &HealthHandler{checks: checks}
}

// Healthz returns OK when every dependency answers within two seconds.
func (h *HealthHandler) Healthz(ctx *gin.Context) {
	c, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	results := make(gin.H, len(h.checks))
	for name, check := range h.checks {
		if err := check(c); err != nil {
			status = http.StatusServiceUnavailable
			results[name] = err.Error()
			continue
		}
		results[name] = "ok"
	}
	message := "ok"
	if status != http.StatusOK {
		message = "degraded"
	}
	ctx.JSON(status, gin.H{"status": message, "message": message, "checks": results})
}
