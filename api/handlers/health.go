// ABOUTME: Health check handler reporting store and cache reachability
// ABOUTME: A cache outage degrades the service, a store outage fails it

package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"openmusic-api/api/dto/responses"
	"openmusic-api/api/response"

	"github.com/danielgtaylor/huma/v2"
)

const healthTimeout = 2 * time.Second

// Pinger is anything whose reachability can be checked
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles the health endpoint
type HealthHandler struct {
	store Pinger
	cache Pinger
	errs  ErrorMapper
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(store, cache Pinger, errs ErrorMapper) *HealthHandler {
	return &HealthHandler{store: store, cache: cache, errs: errs}
}

// RegisterRoutes registers the health route
func (h *HealthHandler) RegisterRoutes(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Report service health",
		Tags:        []string{"Health"},
	}, h.Health)
}

type HealthOutput struct {
	Body response.Data[responses.HealthStatus]
}

// Health handles GET /health
func (h *HealthHandler) Health(ctx context.Context, _ *struct{}) (*HealthOutput, error) {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		return nil, h.errs.Error(ctx, fmt.Errorf("store unreachable: %w", err))
	}

	status := responses.HealthStatus{Status: "ok", Store: "ok", Cache: "ok"}
	if err := h.cache.Ping(ctx); err != nil {
		status.Status = "degraded"
		status.Cache = "unreachable"
	}
	return &HealthOutput{Body: response.OK(status)}, nil
}
