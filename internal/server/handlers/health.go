package handlers

import (
	"context"

	"github.com/kishore-freak653/CRUD-Application/internal/server/dto"
	"github.com/kishore-freak653/CRUD-Application/internal/storage/users"
)

// HealthHandler handles health check requests.
type HealthHandler struct {
	version string
	users   *users.Service
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(version string, svc *users.Service) *HealthHandler {
	return &HealthHandler{version: version, users: svc}
}

// Health handles health check requests.
func (h *HealthHandler) Health(ctx context.Context, _ *dto.HealthRequest) (*dto.HealthResponse, error) {
	resp := &dto.HealthResponse{Status: "ok", Version: h.version}
	if h.users != nil {
		resp.Records = h.users.Len()
	}
	return resp, nil
}
