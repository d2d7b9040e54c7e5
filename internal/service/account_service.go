package service

import (
	"context"
	"errors"

	"github.com/vancr/backend/internal/model"
)

// Account service errors mapped to HTTP statuses by the handlers.
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountInactive    = errors.New("account is inactive")
)

// SignupInput carries the fields of a registration request.
type SignupInput struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Password  string
}

// AccountService defines signup and login business logic.
type AccountService interface {
	// Signup creates a Standard account with a hashed password.
	Signup(ctx context.Context, in SignupInput) (*model.User, error)

	// Login verifies the password and returns the account. Failed attempts
	// are counted; a success resets the counter and stamps last login.
	Login(ctx context.Context, email, password string) (*model.User, error)

	// AccessLevel returns the access level of an active account.
	AccessLevel(ctx context.Context, userID string) (string, error)
}
