package models

import "forum/internal/store"

// Sessions manages the single current-user slot. There is no expiry and no
// token; the slot either holds a reduced user copy or nothing.
type Sessions struct {
	store *store.Store
}

func NewSessions(st *store.Store) *Sessions {
	return &Sessions{store: st}
}

// Current returns the logged-in user copy, if any.
func (s *Sessions) Current() (SessionUser, bool, error) {
	var su *SessionUser
	if err := s.store.Load(store.SlotCurrentUser, &su); err != nil {
		return SessionUser{}, false, err
	}
	if su == nil {
		return SessionUser{}, false, nil
	}
	return *su, true, nil
}

// Login stores the reduced copy of user as the current session.
func (s *Sessions) Login(user User) error {
	return s.store.Save(store.SlotCurrentUser, SessionUser{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
	})
}

// Logout clears the slot unconditionally.
func (s *Sessions) Logout() error {
	return s.store.Delete(store.SlotCurrentUser)
}
