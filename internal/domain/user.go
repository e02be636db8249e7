package domain

import (
	"context"
	"time"
)

// User represents a registered account.
type User struct {
	ID    int64
	Email string
	// Password holds the stored credential ("salt.hash"), never the plaintext.
	Password  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// UserRepository defines persistence operations for users.
// Implementations must reject a second user with the same email with
// ErrEmailInUse, so concurrent signups cannot both succeed.
type UserRepository interface {
	Find(ctx context.Context, email string) ([]User, error)
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	Update(ctx context.Context, user *User) error
	// Delete removes the user and returns the record as it was.
	Delete(ctx context.Context, id int64) (*User, error)
}
