package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/juangracia/booking-mvp-case-study/internal/core/domain"
	mongodb "github.com/juangracia/booking-mvp-case-study/internal/infrastructure/db/mongo"
)

// seedDemoData provisions the demo accounts and a few bookable resources so
// a fresh environment is usable immediately. It is idempotent: existing
// records are left alone.
func seedDemoData(ctx context.Context, db *mongo.Database, log zerolog.Logger) error {
	users := mongodb.NewUserRepository(db)
	resources := mongodb.NewResourceRepository(db)

	demoUsers := []struct {
		email    string
		password string
		role     string
	}{
		{"user@example.com", "user123", domain.RoleUser},
		{"admin@example.com", "admin123", domain.RoleAdmin},
	}
	for _, u := range demoUsers {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hashing seed password: %w", err)
		}
		_, err = users.Create(ctx, &domain.User{
			Email:        u.email,
			PasswordHash: string(hash),
			Role:         u.role,
			CreatedAt:    time.Now().UTC(),
		})
		switch {
		case errors.Is(err, domain.ErrEmailExists):
			// Already seeded.
		case err != nil:
			return fmt.Errorf("seeding user %s: %w", u.email, err)
		default:
			log.Info().Str("email", u.email).Str("role", u.role).Msg("seeded demo user")
		}
	}

	existing, err := resources.List(ctx, false)
	if err != nil {
		return fmt.Errorf("listing resources: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	demoResources := []struct {
		id          string
		name        string
		description string
	}{
		{"room-alpha", "Meeting Room Alpha", "Ground floor, seats 8, whiteboard and screen"},
		{"room-beta", "Meeting Room Beta", "Second floor, seats 4"},
		{"court-1", "Tennis Court 1", "Outdoor hard court"},
	}
	now := time.Now().UTC()
	for _, r := range demoResources {
		err := resources.Create(ctx, &domain.Resource{
			ID:          r.id,
			Name:        r.name,
			Description: r.description,
			Active:      true,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
		if err != nil {
			return fmt.Errorf("seeding resource %s: %w", r.name, err)
		}
		log.Info().Str("resource", r.name).Msg("seeded demo resource")
	}
	return nil
}
