package repository

import (
	"context"

	"github.com/vancr/backend/internal/model"
)

// UserRepository defines the persistence interface for accounts and their
// credentials. Credentials live in a separate table so profile reads never
// touch password material.
type UserRepository interface {
	Create(ctx context.Context, user *model.User, passwordHash string) error
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByEmailWithCredentials(ctx context.Context, email string) (*model.User, *model.Credentials, error)
	AccessLevel(ctx context.Context, userID string) (string, error)
	RecordLoginFailure(ctx context.Context, userID string) error
	RecordLoginSuccess(ctx context.Context, userID string) error
	SetAccessLevel(ctx context.Context, userID, level string) error
}
