package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// UserRepository persists users. Create returns ErrConflict for a taken
// username and FindByUsername returns ErrNotFound for an unknown one.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	FindByUsername(ctx context.Context, username string) (*User, error)
}

type Credentials struct {
	users  UserRepository
	hasher *PasswordHasher
}

func NewCredentials(users UserRepository, hasher *PasswordHasher) *Credentials {
	return &Credentials{users, hasher}
}

func (c *Credentials) Register(ctx context.Context, username, password string) (*User, error) {
	if username == "" {
		return nil, fmt.Errorf("%w: username cannot be empty", ErrInvalid)
	}

	_, err := c.users.FindByUsername(ctx, username)
	if err == nil {
		return nil, fmt.Errorf("%w: username %s already registered", ErrConflict, username)
	}

	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	hash, err := c.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	user := &User{
		ID:             uuid.New().String(),
		Username:       username,
		HashedPassword: hash,
	}

	// The unique index settles concurrent registrations of the same name.
	if err := c.users.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (c *Credentials) Authenticate(ctx context.Context, username, password string) (*User, error) {
	user, err := c.users.FindByUsername(ctx, username)
	if errors.Is(err, ErrNotFound) {
		c.hasher.CompareDummy(password)

		return nil, fmt.Errorf("%w: incorrect username or password", ErrAuth)
	}

	if err != nil {
		return nil, err
	}

	if len(password) > maxPasswordBytes {
		c.hasher.CompareDummy(password)

		return nil, fmt.Errorf("%w: incorrect username or password", ErrAuth)
	}

	if !c.hasher.Compare(user.HashedPassword, password) {
		return nil, fmt.Errorf("%w: incorrect username or password", ErrAuth)
	}

	return user, nil
}

// Resolve maps a verified token subject back to a live user.
func (c *Credentials) Resolve(ctx context.Context, username string) (*User, error) {
	user, err := c.users.FindByUsername(ctx, username)
	if errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("%w: user %s no longer exists", ErrAuth, username)
	}

	return user, err
}
