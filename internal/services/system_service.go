package services

import (
	"context"
	"errors"

	domain "github.com/forja3d/store/internal/domain"
	"github.com/forja3d/store/internal/repositories"
)

// SystemServiceDeps bundles constructor inputs for the system service.
type SystemServiceDeps struct {
	Health repositories.HealthRepository
}

type systemService struct {
	health repositories.HealthRepository
}

// NewSystemService constructs a SystemService enforcing dependency validation.
func NewSystemService(deps SystemServiceDeps) (SystemService, error) {
	if deps.Health == nil {
		return nil, errors.New("system service: health repository is required")
	}
	return &systemService{health: deps.Health}, nil
}

// Health collects the readiness report from the dependency probes.
func (s *systemService) Health(ctx context.Context) (domain.SystemHealthReport, error) {
	return s.health.Collect(ctx)
}
