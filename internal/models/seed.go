package models

import (
	"fmt"

	"github.com/jonboulle/clockwork"

	"forum/internal/store"
)

// Default admin credentials written on first run. Plain text, like every
// other stored password.
const (
	SeedAdminUsername = "admin"
	SeedAdminEmail    = "admin@example.com"
	SeedAdminPassword = "admin123"
)

// Seed writes default data into any slot that does not exist yet: one admin
// user, two categories, and empty topic and post collections. Existing
// slots are never touched, so seeding is idempotent and runs at most once
// per deployment.
func Seed(st *store.Store, clock clockwork.Clock) error {
	now := clock.Now()

	if ok, err := st.Has(store.SlotUsers); err != nil {
		return fmt.Errorf("seed users: %w", err)
	} else if !ok {
		users := []User{{
			ID:        1,
			Username:  SeedAdminUsername,
			Email:     SeedAdminEmail,
			Password:  SeedAdminPassword,
			CreatedAt: now,
		}}
		if err := st.Save(store.SlotUsers, users); err != nil {
			return fmt.Errorf("seed users: %w", err)
		}
	}

	if ok, err := st.Has(store.SlotCategories); err != nil {
		return fmt.Errorf("seed categories: %w", err)
	} else if !ok {
		categories := []Category{
			{ID: 1, Name: "General Questions", Description: "General discussion", CreatedAt: now},
			{ID: 2, Name: "Technical Support", Description: "Help and troubleshooting", CreatedAt: now},
		}
		if err := st.Save(store.SlotCategories, categories); err != nil {
			return fmt.Errorf("seed categories: %w", err)
		}
	}

	if ok, err := st.Has(store.SlotTopics); err != nil {
		return fmt.Errorf("seed topics: %w", err)
	} else if !ok {
		if err := st.Save(store.SlotTopics, []Topic{}); err != nil {
			return fmt.Errorf("seed topics: %w", err)
		}
	}

	if ok, err := st.Has(store.SlotPosts); err != nil {
		return fmt.Errorf("seed posts: %w", err)
	} else if !ok {
		if err := st.Save(store.SlotPosts, []Post{}); err != nil {
			return fmt.Errorf("seed posts: %w", err)
		}
	}
	return nil
}
