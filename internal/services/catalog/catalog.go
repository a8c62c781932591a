// Package catalog serves the public plan list with Redis caching.
package catalog

import (
	"context"
	"log/slog"
	"time"

	"github.com/imobsites/platform/internal/cache"
	"github.com/imobsites/platform/internal/models"
)

const plansCacheTTL = 10 * time.Minute

// Repository defines the plan persistence used by the service.
type Repository interface {
	ListActivePlans(ctx context.Context) ([]*models.Plan, error)
}

// Cache defines the caching backend.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
}

// Service implements the plan catalog.
type Service struct {
	repo  Repository
	cache Cache
	log   *slog.Logger
}

// New creates a catalog Service.
func New(repo Repository, cacheBackend Cache, log *slog.Logger) *Service {
	return &Service{repo: repo, cache: cacheBackend, log: log}
}

// ListActivePlans returns the purchasable plans, served from cache when
// possible.
func (s *Service) ListActivePlans(ctx context.Context) ([]*models.Plan, error) {
	var cached []*models.Plan
	found, err := s.cache.Get(cache.PlansKey, &cached)
	if err != nil {
		s.log.Warn("plan cache read failed", slog.Any("err", err))
	}
	if found {
		return cached, nil
	}

	plans, err := s.repo.ListActivePlans(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(cache.PlansKey, plans, plansCacheTTL); err != nil {
		s.log.Warn("failed to cache plans", slog.Any("err", err))
	}
	return plans, nil
}
