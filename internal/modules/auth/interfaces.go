package auth

import (
	"context"

	"interventions/internal/domain"
)

// UserDirectory is the user store behind login. Lookups return (nil, nil)
// when the user does not exist.
type UserDirectory interface {
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

type TokenIssuer interface {
	GenerateToken(userID int64, username, role string) (string, error)
}
