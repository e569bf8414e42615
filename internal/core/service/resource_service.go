package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/juangracia/booking-mvp-case-study/internal/core/domain"
	"github.com/juangracia/booking-mvp-case-study/internal/core/ports"
)

// ResourceService implements the user browse view and the admin CRUD over
// bookable resources.
type ResourceService struct {
	repo   ports.ResourceRepository
	logger zerolog.Logger
}

func NewResourceService(repo ports.ResourceRepository, logger zerolog.Logger) *ResourceService {
	return &ResourceService{repo: repo, logger: logger}
}

func (s *ResourceService) Browse(ctx context.Context) ([]*domain.Resource, error) {
	return s.repo.List(ctx, true)
}

func (s *ResourceService) Get(ctx context.Context, id string) (*domain.Resource, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *ResourceService) ListAll(ctx context.Context) ([]*domain.Resource, error) {
	return s.repo.List(ctx, false)
}

func (s *ResourceService) Create(ctx context.Context, in ports.UpsertResourceInput) (*domain.Resource, error) {
	name := strings.TrimSpace(in.Name)

	active := true
	if in.Active != nil {
		active = *in.Active
	}

	now := time.Now().UTC()
	resource := &domain.Resource{
		ID:          uuid.NewString(),
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		Active:      active,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, resource); err != nil {
		s.logger.Error().Err(err).Str("name", name).Msg("failed to create resource")
		return nil, err
	}

	s.logger.Info().Str("resource_id", resource.ID).Str("name", resource.Name).Msg("resource created")
	return resource, nil
}

func (s *ResourceService) Update(ctx context.Context, id string, in ports.UpsertResourceInput) (*domain.Resource, error) {
	resource, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(in.Name); name != "" {
		resource.Name = name
	}
	resource.Description = strings.TrimSpace(in.Description)
	if in.Active != nil {
		resource.Active = *in.Active
	}
	resource.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, resource); err != nil {
		s.logger.Error().Err(err).Str("resource_id", id).Msg("failed to update resource")
		return nil, err
	}

	s.logger.Info().Str("resource_id", resource.ID).Bool("active", resource.Active).Msg("resource updated")
	return resource, nil
}
