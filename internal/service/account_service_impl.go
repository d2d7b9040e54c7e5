package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/vancr/backend/internal/model"
	"github.com/vancr/backend/internal/repository"
)

// accountServiceImpl is the production implementation of AccountService.
type accountServiceImpl struct {
	repo repository.UserRepository
}

// NewAccountService creates an AccountService backed by the given repository.
func NewAccountService(repo repository.UserRepository) AccountService {
	return &accountServiceImpl{repo: repo}
}

// Signup creates a Standard account. Email is normalized to lower case;
// duplicate email/phone errors pass through from the repository.
func (s *accountServiceImpl) Signup(ctx context.Context, in SignupInput) (*model.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		ID:          uuid.NewString(),
		Email:       strings.ToLower(strings.TrimSpace(in.Email)),
		FirstName:   strings.TrimSpace(in.FirstName),
		LastName:    strings.TrimSpace(in.LastName),
		Phone:       strings.TrimSpace(in.Phone),
		Active:      true,
		AccessLevel: model.AccessLevelStandard,
	}
	if err := s.repo.Create(ctx, user, string(hash)); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies the password against the stored hash. The caller cannot
// distinguish an unknown email from a wrong password.
func (s *accountServiceImpl) Login(ctx context.Context, email, password string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, creds, err := s.repo.FindByEmailWithCredentials(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.Active {
		return nil, ErrAccountInactive
	}

	if err := bcrypt.CompareHashAndPassword([]byte(creds.PasswordHash), []byte(password)); err != nil {
		if recErr := s.repo.RecordLoginFailure(ctx, user.ID); recErr != nil {
			slog.Warn("failed to record login failure", "error", recErr)
		}
		return nil, ErrInvalidCredentials
	}

	if err := s.repo.RecordLoginSuccess(ctx, user.ID); err != nil {
		slog.Warn("failed to record login success", "error", err)
	}
	return user, nil
}

func (s *accountServiceImpl) AccessLevel(ctx context.Context, userID string) (string, error) {
	return s.repo.AccessLevel(ctx, userID)
}
