package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/timada-org/todos/internal/core"
)

// Todos scopes every query by owner. A todo that belongs to somebody else
// is reported exactly like one that does not exist.
type Todos struct {
	db *gorm.DB
}

func (t *Todos) Create(ctx context.Context, userID, text string) (*core.Todo, error) {
	todo := core.Todo{
		ID:     uuid.New().String(),
		Text:   text,
		UserID: userID,
	}

	if err := t.db.WithContext(ctx).Create(&todo).Error; err != nil {
		return nil, err
	}

	return &todo, nil
}

func (t *Todos) List(ctx context.Context, userID string) ([]core.Todo, error) {
	todos := []core.Todo{}

	err := t.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at, id").
		Find(&todos).Error
	if err != nil {
		return nil, err
	}

	return todos, nil
}

func (t *Todos) Update(ctx context.Context, userID, todoID, text string) (*core.Todo, error) {
	var todo core.Todo

	err := t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND user_id = ?", todoID, userID).First(&todo).Error; err != nil {
			return err
		}

		if err := tx.Model(&todo).Update("text", text).Error; err != nil {
			return err
		}

		todo.Text = text

		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: todo %s", core.ErrNotFound, todoID)
	}

	if err != nil {
		return nil, err
	}

	return &todo, nil
}

func (t *Todos) Delete(ctx context.Context, userID, todoID string) error {
	result := t.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", todoID, userID).
		Delete(&core.Todo{})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: todo %s", core.ErrNotFound, todoID)
	}

	return nil
}
