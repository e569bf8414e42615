package ports

import (
	"context"

	"github.com/juangracia/booking-mvp-case-study/internal/core/domain"
)

// UpsertResourceInput carries the admin create/update payload for a resource.
type UpsertResourceInput struct {
	Name        string
	Description string
	Active      *bool // nil on create defaults to active
}

type ResourceService interface {
	// Browse returns active resources only (user view).
	Browse(ctx context.Context) ([]*domain.Resource, error)
	Get(ctx context.Context, id string) (*domain.Resource, error)
	// ListAll returns every resource including inactive ones (admin view).
	ListAll(ctx context.Context) ([]*domain.Resource, error)
	Create(ctx context.Context, in UpsertResourceInput) (*domain.Resource, error)
	Update(ctx context.Context, id string, in UpsertResourceInput) (*domain.Resource, error)
}
