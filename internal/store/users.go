package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/timada-org/todos/internal/core"
)

type Users struct {
	db *gorm.DB
}

func (u *Users) Create(ctx context.Context, user *core.User) error {
	err := u.db.WithContext(ctx).Create(user).Error
	if isDuplicate(err) {
		return fmt.Errorf("%w: username %s already registered", core.ErrConflict, user.Username)
	}

	return err
}

func (u *Users) FindByUsername(ctx context.Context, username string) (*core.User, error) {
	var user core.User

	err := u.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: user %s", core.ErrNotFound, username)
	}

	if err != nil {
		return nil, err
	}

	return &user, nil
}

func isDuplicate(err error) bool {
	if err == nil {
		return false
	}

	return errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "UNIQUE constraint failed")
}
