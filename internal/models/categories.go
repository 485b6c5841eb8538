package models

import (
	"strings"

	"github.com/jonboulle/clockwork"

	"forum/internal/store"
)

// Categories reads and writes the category collection. Categories are only
// ever created, never updated or deleted.
type Categories struct {
	store *store.Store
	clock clockwork.Clock
}

func NewCategories(st *store.Store, clock clockwork.Clock) *Categories {
	return &Categories{store: st, clock: clock}
}

func (r *Categories) List() ([]Category, error) {
	var categories []Category
	if err := r.store.Load(store.SlotCategories, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *Categories) Get(id int64) (Category, bool, error) {
	categories, err := r.List()
	if err != nil {
		return Category{}, false, err
	}
	for _, c := range categories {
		if c.ID == id {
			return c, true, nil
		}
	}
	return Category{}, false, nil
}

func (r *Categories) Create(name, description string) (Category, error) {
	if strings.TrimSpace(name) == "" {
		return Category{}, ErrEmptyField
	}
	categories, err := r.List()
	if err != nil {
		return Category{}, err
	}
	now := r.clock.Now()
	category := Category{
		ID:          now.UnixMilli(),
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
		CreatedAt:   now,
	}
	categories = append(categories, category)
	if err := r.store.Save(store.SlotCategories, categories); err != nil {
		return Category{}, err
	}
	return category, nil
}
