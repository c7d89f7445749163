package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"budget/internal/core"
	applog "budget/internal/log"
	"budget/internal/ports"

	"github.com/google/uuid"
)

type CategoryService struct {
	store  ports.CategoryStore
	events publisher
}

func NewCategoryService(store ports.CategoryStore, events ports.EventPublisher, clock ports.Clock) *CategoryService {
	return &CategoryService{
		store:  store,
		events: publisher{events: events, now: clockOrNow(clock)},
	}
}

// List returns all categories ordered by name.
func (s *CategoryService) List(ctx context.Context) ([]core.Category, error) {
	categories, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// Get returns category id, or core.ErrNotFound.
func (s *CategoryService) Get(ctx context.Context, id string) (core.Category, error) {
	c, err := s.store.GetCategory(ctx, id)
	if err != nil {
		return core.Category{}, fmt.Errorf("get category: %w", err)
	}
	return c, nil
}

func (s *CategoryService) Create(ctx context.Context, name string) (core.Category, error) {
	name, err := core.ValidateCategoryName(name)
	if err != nil {
		return core.Category{}, err
	}

	c := core.Category{ID: uuid.NewString(), Name: name}
	if err := s.store.CreateCategory(ctx, c); err != nil {
		return core.Category{}, fmt.Errorf("save category: %w", err)
	}

	s.events.publish(ctx, ports.EntityCategory, ports.ActionCreated, c.ID)
	return c, nil
}

// Update renames category id. An unknown id is a no-op.
func (s *CategoryService) Update(ctx context.Context, id, name string) (core.Category, error) {
	name, err := core.ValidateCategoryName(name)
	if err != nil {
		return core.Category{}, err
	}

	c := core.Category{ID: id, Name: name}
	updated, err := s.store.UpdateCategory(ctx, c)
	if err != nil {
		return core.Category{}, fmt.Errorf("update category: %w", err)
	}
	if !updated {
		slog.InfoContext(ctx, "Category not found, nothing to update", applog.FieldID, id)
		return c, nil
	}

	if stored, err := s.store.GetCategory(ctx, id); err == nil {
		c = stored
	} else if !errors.Is(err, core.ErrNotFound) {
		return core.Category{}, fmt.Errorf("reload category: %w", err)
	}

	s.events.publish(ctx, ports.EntityCategory, ports.ActionUpdated, id)
	return c, nil
}

// Delete removes category id. Its transactions are kept without a category.
func (s *CategoryService) Delete(ctx context.Context, id string) error {
	deleted, err := s.store.DeleteCategory(ctx, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if !deleted {
		slog.InfoContext(ctx, "Category not found, nothing to delete", applog.FieldID, id)
		return nil
	}

	s.events.publish(ctx, ports.EntityCategory, ports.ActionDeleted, id)
	return nil
}
