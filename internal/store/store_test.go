package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type record struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func TestRoundTrip(t *testing.T) {
	st := newTestStore(t)

	in := []record{{ID: 1, Name: "a"}, {ID: 2, Name: "b"}}
	require.NoError(t, st.Save("things", in))

	var out []record
	require.NoError(t, st.Load("things", &out))
	require.Equal(t, in, out)
}

func TestLoadAbsentSlotLeavesValueUntouched(t *testing.T) {
	st := newTestStore(t)

	var out []record
	require.NoError(t, st.Load("missing", &out))
	require.Empty(t, out)
}

func TestSaveReplacesWholeSlot(t *testing.T) {
	st := newTestStore(t)

	require.NoError(t, st.Save("things", []record{{ID: 1, Name: "a"}, {ID: 2, Name: "b"}}))
	require.NoError(t, st.Save("things", []record{{ID: 3, Name: "c"}}))

	var out []record
	require.NoError(t, st.Load("things", &out))
	require.Equal(t, []record{{ID: 3, Name: "c"}}, out)
}

func TestHas(t *testing.T) {
	st := newTestStore(t)

	ok, err := st.Has("things")
	require.NoError(t, err)
	require.False(t, ok)

	// An empty collection still counts as an existing slot.
	require.NoError(t, st.Save("things", []record{}))
	ok, err = st.Has("things")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestDelete(t *testing.T) {
	st := newTestStore(t)

	require.NoError(t, st.Save("things", []record{{ID: 1, Name: "a"}}))
	require.NoError(t, st.Delete("things"))

	ok, err := st.Has("things")
	require.NoError(t, err)
	require.False(t, ok)

	// Deleting an absent slot is fine.
	require.NoError(t, st.Delete("things"))
}

func TestScalarSlot(t *testing.T) {
	st := newTestStore(t)

	require.NoError(t, st.Save("current", record{ID: 7, Name: "x"}))

	var out *record
	require.NoError(t, st.Load("current", &out))
	require.NotNil(t, out)
	require.Equal(t, record{ID: 7, Name: "x"}, *out)
}

func TestReopenKeepsData(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")

	st, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, st.Save("things", []record{{ID: 1, Name: "a"}}))
	require.NoError(t, st.Close())

	st, err = Open(path)
	require.NoError(t, err)
	defer st.Close()

	var out []record
	require.NoError(t, st.Load("things", &out))
	require.Equal(t, []record{{ID: 1, Name: "a"}}, out)
}
