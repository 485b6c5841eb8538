package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPostsOldestFirst(t *testing.T) {
	st := newTestStore(t)
	clock := newTestClock()
	posts := NewPosts(st, clock)

	first, err := posts.Create(1, 10, "first reply")
	require.NoError(t, err)
	clock.Advance(time.Minute)
	second, err := posts.Create(1, 10, "second reply")
	require.NoError(t, err)
	clock.Advance(time.Minute)
	third, err := posts.Create(1, 10, "third reply")
	require.NoError(t, err)

	got, err := posts.ListByTopic(1)
	require.NoError(t, err)
	require.Len(t, got, 3)
	require.Equal(t, first.ID, got[0].ID)
	require.Equal(t, second.ID, got[1].ID)
	require.Equal(t, third.ID, got[2].ID)
}

func TestPostsFilterAndCount(t *testing.T) {
	st := newTestStore(t)
	clock := newTestClock()
	posts := NewPosts(st, clock)

	_, err := posts.Create(1, 10, "on topic one")
	require.NoError(t, err)
	clock.Advance(time.Millisecond)
	_, err = posts.Create(2, 10, "on topic two")
	require.NoError(t, err)

	got, err := posts.ListByTopic(1)
	require.NoError(t, err)
	require.Len(t, got, 1)

	n, err := posts.CountByTopic(2)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	n, err = posts.CountByTopic(3)
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestPostCreateValidation(t *testing.T) {
	st := newTestStore(t)
	posts := NewPosts(st, newTestClock())

	_, err := posts.Create(1, 10, "  ")
	require.ErrorIs(t, err, ErrEmptyField)

	all, err := posts.List()
	require.NoError(t, err)
	require.Empty(t, all)
}
