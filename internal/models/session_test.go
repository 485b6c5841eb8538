package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSessionLifecycle(t *testing.T) {
	st := newTestStore(t)
	sessions := NewSessions(st)

	_, ok, err := sessions.Current()
	require.NoError(t, err)
	require.False(t, ok)

	user := User{ID: 42, Username: "alice", Email: "a@x.com", Password: "secret1"}
	require.NoError(t, sessions.Login(user))

	su, ok, err := sessions.Current()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, SessionUser{ID: 42, Username: "alice", Email: "a@x.com"}, su)

	require.NoError(t, sessions.Logout())
	_, ok, err = sessions.Current()
	require.NoError(t, err)
	require.False(t, ok)

	// Logging out twice is harmless.
	require.NoError(t, sessions.Logout())
}

func TestSessionIsACopyNotAReference(t *testing.T) {
	st := newTestStore(t)
	clock := newTestClock()
	users := NewUsers(st, clock)
	sessions := NewSessions(st)

	alice, err := users.Register("alice", "a@x.com", "secret1", "secret1")
	require.NoError(t, err)
	require.NoError(t, sessions.Login(alice))

	// A password change does not touch the session copy.
	require.NoError(t, users.ChangePassword(alice.ID, "secret1", "newpass1", "newpass1"))

	su, ok, err := sessions.Current()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "alice", su.Username)
}
