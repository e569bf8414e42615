package ports

import (
	"context"

	"github.com/juangracia/booking-mvp-case-study/internal/core/domain"
)

type AuthService interface {
	// Register creates a USER account and returns a signed token for it.
	Register(ctx context.Context, email, password string) (string, *domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	// Me resolves the current identity from a user id carried in the token.
	Me(ctx context.Context, userID string) (*domain.User, error)
}
