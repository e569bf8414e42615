package ports

import (
	"context"

	"github.com/juangracia/booking-mvp-case-study/internal/core/domain"
)

// ResourceRepository defines persistence operations for bookable resources.
type ResourceRepository interface {
	Create(ctx context.Context, r *domain.Resource) error
	Update(ctx context.Context, r *domain.Resource) error
	FindByID(ctx context.Context, id string) (*domain.Resource, error)
	// List returns resources ordered by name. When activeOnly is true the
	// result is restricted to active resources (the user-facing browse list).
	List(ctx context.Context, activeOnly bool) ([]*domain.Resource, error)
}
