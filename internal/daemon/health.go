package daemon

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/thand-io/components/internal/api"
	"github.com/thand-io/components/internal/common"
	"github.com/thand-io/components/internal/models"
)

const readinessTimeout = 5 * time.Second

// healthHandler is the liveness check. It never touches the backend.
//
//	@Summary	Health check
//	@Tags		health
//	@Produce	json
//	@Success	200	{object}	models.HealthResponse
//	@Router		/health [get]
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, models.HealthResponse{
		Status:    models.HealthStatusHealthy,
		Version:   s.GetVersion(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// readyHandler checks the backend. The service stays up when the backend
// is not reachable, so the answer is always 200 with a degraded status and
// warnings instead.
//
//	@Summary	Readiness check
//	@Tags		health
//	@Produce	json
//	@Success	200	{object}	models.ReadinessResponse
//	@Router		/health/ready [get]
func (s *Server) readyHandler(c *gin.Context) {

	response := models.ReadinessResponse{
		Status:     models.HealthStatusHealthy,
		Version:    s.GetVersion(),
		AppName:    appName,
		Components: map[string]map[string]any{},
	}

	backend := map[string]any{
		"base_url": s.Client.BaseURL(),
		"version":  s.Config.API.GetVersion(),
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
	defer cancel()

	started := time.Now()
	result := s.Client.Get(ctx, s.Config.Server.Health.CheckPath, api.RequestOptions{})
	backend["latency_ms"] = time.Since(started).Milliseconds()

	api.Match(result,
		func(success api.Success) struct{} {
			backend["status"] = models.HealthStatusHealthy
			backend["status_code"] = success.StatusCode
			return struct{}{}
		},
		func(failure api.Failure) struct{} {
			backend["status"] = models.HealthStatusUnhealthy
			backend["error"] = failure.Error.Kind
			response.Status = models.HealthStatusDegraded
			response.Warnings = append(response.Warnings,
				fmt.Sprintf("backend api: %s", failure.Error.Error()))
			return struct{}{}
		},
	)

	response.Components["api"] = backend

	c.JSON(http.StatusOK, response)
}

// metricsHandler reports request counters
//
//	@Summary	Service metrics
//	@Tags		metrics
//	@Produce	json
//	@Success	200	{object}	models.MetricsInfo
//	@Router		/metrics [get]
func (s *Server) metricsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, models.MetricsInfo{
		Uptime:        common.FormatDuration(time.Since(s.StartTime)),
		TotalRequests: atomic.LoadInt64(&s.TotalRequests),
		Searches:      atomic.LoadInt64(&s.SearchRequests),
		Failures:      s.failureCounts(),
	})
}

// getLogs returns the recent warnings and errors
//
//	@Summary	Recent warnings and errors
//	@Tags		health
//	@Produce	json
//	@Param		count	query	int	false	"Maximum entries"
//	@Success	200		{array}	models.LogEntry
//	@Router		/api/v1/logs [get]
func (s *Server) getLogs(c *gin.Context) {

	buffer := s.Config.GetLogBuffer()
	if buffer == nil {
		c.JSON(http.StatusOK, []*models.LogEntry{})
		return
	}

	count, _ := strconv.Atoi(c.Query("count"))

	c.JSON(http.StatusOK, buffer.GetRecentEvents(count))
}
