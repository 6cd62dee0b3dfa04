package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/Dcavise/SEEK-sub001/modules/registry/domain/aggregates/property"
)

// PropertyService is a thin application-layer facade over the registry
// repository; invariants live in the repository and the aggregate.
type PropertyService struct {
	repo property.Repository
}

func NewPropertyService(repo property.Repository) *PropertyService {
	return &PropertyService{repo: repo}
}

func (s *PropertyService) GetPaginated(ctx context.Context, params *property.FindParams) ([]property.Property, int64, error) {
	return s.repo.GetPaginated(ctx, params)
}

func (s *PropertyService) GetByID(ctx context.Context, id uuid.UUID) (property.Property, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *PropertyService) Create(ctx context.Context, p property.Property) (property.Property, error) {
	return s.repo.Create(ctx, p)
}
