package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCategoryCreateAndList(t *testing.T) {
	st := newTestStore(t)
	clock := newTestClock()
	categories := NewCategories(st, clock)

	created, err := categories.Create("  General  ", " Everyday talk ")
	require.NoError(t, err)
	require.Equal(t, "General", created.Name)
	require.Equal(t, "Everyday talk", created.Description)
	require.Equal(t, clock.Now().UnixMilli(), created.ID)

	clock.Advance(time.Millisecond)
	_, err = categories.Create("Support", "")
	require.NoError(t, err)

	all, err := categories.List()
	require.NoError(t, err)
	require.Len(t, all, 2)

	got, ok, err := categories.Get(created.ID)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, created.Name, got.Name)

	_, ok, err = categories.Get(99999)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestCategoryCreateRequiresName(t *testing.T) {
	st := newTestStore(t)
	categories := NewCategories(st, newTestClock())

	_, err := categories.Create("   ", "desc")
	require.ErrorIs(t, err, ErrEmptyField)

	all, err := categories.List()
	require.NoError(t, err)
	require.Empty(t, all)
}
