package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTopicsNewestFirst(t *testing.T) {
	st := newTestStore(t)
	clock := newTestClock()
	topics := NewTopics(st, clock)

	first, err := topics.Create(1, 10, "first", "oldest")
	require.NoError(t, err)
	clock.Advance(time.Minute)
	second, err := topics.Create(1, 10, "second", "middle")
	require.NoError(t, err)
	clock.Advance(time.Minute)
	third, err := topics.Create(1, 10, "third", "newest")
	require.NoError(t, err)

	got, err := topics.ListByCategory(1)
	require.NoError(t, err)
	require.Len(t, got, 3)
	require.Equal(t, third.ID, got[0].ID)
	require.Equal(t, second.ID, got[1].ID)
	require.Equal(t, first.ID, got[2].ID)
}

func TestTopicsFilterByCategory(t *testing.T) {
	st := newTestStore(t)
	clock := newTestClock()
	topics := NewTopics(st, clock)

	a, err := topics.Create(1, 10, "in general", "x")
	require.NoError(t, err)
	clock.Advance(time.Millisecond)
	_, err = topics.Create(2, 10, "in support", "x")
	require.NoError(t, err)

	got, err := topics.ListByCategory(1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, a.ID, got[0].ID)

	// A category nothing references yet.
	got, err = topics.ListByCategory(3)
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestTopicCreateValidation(t *testing.T) {
	st := newTestStore(t)
	topics := NewTopics(st, newTestClock())

	_, err := topics.Create(1, 10, "", "content")
	require.ErrorIs(t, err, ErrEmptyField)
	_, err = topics.Create(1, 10, "title", "   ")
	require.ErrorIs(t, err, ErrEmptyField)

	all, err := topics.List()
	require.NoError(t, err)
	require.Empty(t, all)
}

func TestCategoryTopicCount(t *testing.T) {
	st := newTestStore(t)
	clock := newTestClock()
	categories := NewCategories(st, clock)
	topics := NewTopics(st, clock)

	general, err := categories.Create("General", "")
	require.NoError(t, err)

	n, err := topics.CountByCategory(general.ID)
	require.NoError(t, err)
	require.Zero(t, n, "count stays 0 until a topic references the category")

	clock.Advance(time.Millisecond)
	_, err = topics.Create(general.ID, 10, "hello", "world")
	require.NoError(t, err)

	n, err = topics.CountByCategory(general.ID)
	require.NoError(t, err)
	require.Equal(t, 1, n)
}
