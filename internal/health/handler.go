// Package health reports the state of the server's backing services.
package health

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/redis/go-redis/v9"
	"github.com/serroba/clubin-web/internal/ratelimit"
)

const (
	statusOK        = "ok"
	statusDegraded  = "degraded"
	statusHealthy   = "healthy"
	statusUnhealthy = "unhealthy"
)

// Checker defines the interface for checking service health.
type Checker interface {
	Ping(ctx context.Context) error
}

// CheckerFunc adapts a function to Checker.
type CheckerFunc func(ctx context.Context) error

func (f CheckerFunc) Ping(ctx context.Context) error { return f(ctx) }

// RedisChecker adapts redis.Client to Checker interface.
type RedisChecker struct {
	client *redis.Client
}

// NewRedisChecker creates a new Redis health checker.
func NewRedisChecker(client *redis.Client) *RedisChecker {
	return &RedisChecker{client: client}
}

// Ping checks Redis connectivity.
func (r *RedisChecker) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Handler handles health check operations.
type Handler struct {
	checks map[string]Checker
}

// NewHandler creates a health handler over named dependencies.
func NewHandler(checks map[string]Checker) *Handler {
	return &Handler{checks: checks}
}

// Response is the response for health check endpoint.
type Response struct {
	Body struct {
		Status     string            `json:"status"`
		Components map[string]string `json:"components"`
	}
}

// Check pings every dependency. A failing dependency degrades the status and
// the request still succeeds.
func (h *Handler) Check(ctx context.Context, _ *struct{}) (*Response, error) {
	resp := &Response{}
	resp.Body.Status = statusOK
	resp.Body.Components = make(map[string]string, len(h.checks))

	for name, checker := range h.checks {
		if err := checker.Ping(ctx); err != nil {
			resp.Body.Components[name] = statusUnhealthy
			resp.Body.Status = statusDegraded

			continue
		}

		resp.Body.Components[name] = statusHealthy
	}

	return resp, nil
}

// RegisterRoutes registers health check routes.
func RegisterRoutes(api huma.API, h *Handler) {
	huma.Register(api, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Tags:        []string{"Health"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{Disabled: true},
		},
	}, h.Check)
}
