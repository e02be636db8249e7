package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/msomdec/accounts/internal/domain"
	"github.com/msomdec/accounts/internal/logging"
)

// PasswordHasher derives and checks stored credentials.
type PasswordHasher interface {
	// Hash returns a freshly salted credential for password.
	Hash(ctx context.Context, password string) (string, error)

	// Verify reports whether password matches credential. A malformed
	// credential returns an error wrapping domain.ErrCorruptCredential.
	Verify(ctx context.Context, password, credential string) (bool, error)
}

// AuthService handles signup and signin. It never touches sessions; the
// caller records the returned user's ID.
type AuthService struct {
	users  domain.UserRepository
	hasher PasswordHasher
}

// NewAuthService creates a new AuthService.
func NewAuthService(users domain.UserRepository, hasher PasswordHasher) *AuthService {
	return &AuthService{users: users, hasher: hasher}
}

// Signup creates an account for email. It fails with domain.ErrEmailInUse
// if the email is already registered, whether that is seen by the lookup or
// by the store's uniqueness constraint on a concurrent insert.
func (s *AuthService) Signup(ctx context.Context, email, password string) (*domain.User, error) {
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", domain.ErrInvalidInput)
	}

	existing, err := s.users.Find(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	if len(existing) > 0 {
		return nil, domain.ErrEmailInUse
	}

	credential, err := s.hasher.Hash(ctx, password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{Email: email, Password: credential}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrEmailInUse) {
			return nil, domain.ErrEmailInUse
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	logging.FromContext(ctx).Info("user signed up", "user_id", user.ID)
	return user, nil
}

// Signin returns the user whose credential matches password.
// An unknown email and a wrong password both yield domain.ErrInvalidCredentials.
func (s *AuthService) Signin(ctx context.Context, email, password string) (*domain.User, error) {
	users, err := s.users.Find(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	if len(users) == 0 {
		return nil, domain.ErrInvalidCredentials
	}
	user := users[0]

	ok, err := s.hasher.Verify(ctx, password, user.Password)
	if err != nil {
		if errors.Is(err, domain.ErrCorruptCredential) {
			logging.FromContext(ctx).Error("stored credential is corrupt", "user_id", user.ID, "error", err)
		}
		return nil, fmt.Errorf("verify credential for user %d: %w", user.ID, err)
	}
	if !ok {
		return nil, domain.ErrInvalidCredentials
	}

	return &user, nil
}
