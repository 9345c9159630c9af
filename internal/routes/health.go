package routes

import (
	"context"
	"net/http"
	"time"

	"Finary/internal/contracts"
	"Finary/internal/logger"

	"github.com/gin-gonic/gin"
)

type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

const healthTimeout = 2 * time.Second

func (h *Handler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	resp := contracts.HealthResponse{Status: "ok", Checks: map[string]string{}}
	status := http.StatusOK
	for _, check := range h.HealthChecks {
		if err := check.Check(ctx); err != nil {
			logger.Warn().Err(err).Str("check", check.Name).Msg("health_check_failed")
			resp.Checks[check.Name] = err.Error()
			resp.Status = "degraded"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[check.Name] = "ok"
	}

	c.JSON(status, resp)
}
