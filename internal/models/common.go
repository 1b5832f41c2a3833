package models

// ErrorResponse is the JSON body of every error answered by the server.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

type HealthState string

const (
	HealthStatusHealthy   HealthState = "healthy"
	HealthStatusDegraded  HealthState = "degraded"
	HealthStatusUnhealthy HealthState = "unhealthy"
)

// HealthResponse is returned by the liveness endpoint.
type HealthResponse struct {
	Status    HealthState `json:"status"`
	Version   string      `json:"version"`
	Timestamp string      `json:"timestamp"`
}

// ReadinessResponse is returned by the readiness endpoint.
type ReadinessResponse struct {
	Status     HealthState               `json:"status"`
	Version    string                    `json:"version"`
	AppName    string                    `json:"app_name"`
	Components map[string]map[string]any `json:"components,omitempty"`
	Warnings   []string                  `json:"warnings,omitempty"`
}

// MetricsInfo is returned by the metrics endpoint.
type MetricsInfo struct {
	Uptime        string           `json:"uptime"`
	TotalRequests int64            `json:"total_requests"`
	Searches      int64            `json:"searches"`
	Failures      map[string]int64 `json:"failures"`
}

// TokensResponse is the session token state together with the backend query
// it produces.
type TokensResponse struct {
	Tokens    []SessionToken `json:"tokens"`
	Operators []bool         `json:"operators"`
	Query     string         `json:"query"`
}
