package service

import (
	"context"
	"fmt"

	"github.com/msomdec/accounts/internal/domain"
)

// UserUpdate lists the fields to change; nil fields are left as they are.
type UserUpdate struct {
	Email    *string
	Password *string
}

// UserService exposes CRUD on user records.
type UserService struct {
	users  domain.UserRepository
	hasher PasswordHasher
}

// NewUserService creates a new UserService.
func NewUserService(users domain.UserRepository, hasher PasswordHasher) *UserService {
	return &UserService{users: users, hasher: hasher}
}

// Get returns the user with id or domain.ErrNotFound.
func (s *UserService) Get(ctx context.Context, id int64) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

// FindByEmail returns every user registered under email.
func (s *UserService) FindByEmail(ctx context.Context, email string) ([]domain.User, error) {
	users, err := s.users.Find(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	return users, nil
}

// Update applies upd to the user with id. A new password is stored as a
// freshly salted credential.
func (s *UserService) Update(ctx context.Context, id int64, upd UserUpdate) (*domain.User, error) {
	if upd.Email == nil && upd.Password == nil {
		return nil, fmt.Errorf("%w: nothing to update", domain.ErrInvalidInput)
	}
	if (upd.Email != nil && *upd.Email == "") || (upd.Password != nil && *upd.Password == "") {
		return nil, fmt.Errorf("%w: fields cannot be empty", domain.ErrInvalidInput)
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Email != nil {
		user.Email = *upd.Email
	}
	if upd.Password != nil {
		credential, err := s.hasher.Hash(ctx, *upd.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.Password = credential
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Delete removes the user with id and returns the removed record.
func (s *UserService) Delete(ctx context.Context, id int64) (*domain.User, error) {
	return s.users.Delete(ctx, id)
}
