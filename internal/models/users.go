package models

import (
	"errors"
	"fmt"

	"github.com/jonboulle/clockwork"

	"forum/internal/store"
)

var (
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrPasswordTooShort   = errors.New("password must be at least 6 characters")
	ErrDuplicateIdentity  = errors.New("username or email already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrWrongPassword      = errors.New("current password is incorrect")
	ErrEmptyField         = errors.New("required field is empty")
	ErrUserNotFound       = errors.New("user not found")
)

// MinPasswordLen is the minimum accepted password length.
const MinPasswordLen = 6

// Users reads and writes the user collection. Every call re-reads the whole
// collection from the store; nothing is cached between calls.
type Users struct {
	store *store.Store
	clock clockwork.Clock
}

func NewUsers(st *store.Store, clock clockwork.Clock) *Users {
	return &Users{store: st, clock: clock}
}

func (r *Users) All() ([]User, error) {
	var users []User
	if err := r.store.Load(store.SlotUsers, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *Users) save(users []User) error {
	return r.store.Save(store.SlotUsers, users)
}

// Register validates and appends a new user. Checks run in order: password
// confirmation, minimum length, identity uniqueness. On any failure the
// collection is left unchanged.
func (r *Users) Register(username, email, password, confirm string) (User, error) {
	if password != confirm {
		return User{}, ErrPasswordMismatch
	}
	if len(password) < MinPasswordLen {
		return User{}, ErrPasswordTooShort
	}
	users, err := r.All()
	if err != nil {
		return User{}, err
	}
	for _, u := range users {
		if u.Username == username || u.Email == email {
			return User{}, ErrDuplicateIdentity
		}
	}
	now := r.clock.Now()
	user := User{
		ID:        now.UnixMilli(),
		Username:  username,
		Email:     email,
		Password:  password,
		CreatedAt: now,
	}
	users = append(users, user)
	if err := r.save(users); err != nil {
		return User{}, err
	}
	return user, nil
}

// Authenticate matches on (username or email) plus password; the first
// matching user wins. Passwords are compared as stored.
func (r *Users) Authenticate(usernameOrEmail, password string) (User, error) {
	users, err := r.All()
	if err != nil {
		return User{}, err
	}
	for _, u := range users {
		if (u.Username == usernameOrEmail || u.Email == usernameOrEmail) && u.Password == password {
			return u, nil
		}
	}
	return User{}, ErrInvalidCredentials
}

// Get looks up a user by id. A missing user is not an error.
func (r *Users) Get(id int64) (User, bool, error) {
	users, err := r.All()
	if err != nil {
		return User{}, false, err
	}
	for _, u := range users {
		if u.ID == id {
			return u, true, nil
		}
	}
	return User{}, false, nil
}

// UpdateProfile overwrites the username and email of the user in place. If
// the current-user slot holds the same id, the reduced copy there is
// refreshed too, so the session does not drift on profile edits.
func (r *Users) UpdateProfile(id int64, newUsername, newEmail string) (User, error) {
	users, err := r.All()
	if err != nil {
		return User{}, err
	}
	idx := -1
	for i, u := range users {
		if u.ID == id {
			idx = i
			continue
		}
		if u.Username == newUsername || u.Email == newEmail {
			return User{}, ErrDuplicateIdentity
		}
	}
	if idx < 0 {
		return User{}, ErrUserNotFound
	}
	users[idx].Username = newUsername
	users[idx].Email = newEmail
	if err := r.save(users); err != nil {
		return User{}, err
	}
	sessions := NewSessions(r.store)
	current, ok, err := sessions.Current()
	if err != nil {
		return User{}, fmt.Errorf("refresh session: %w", err)
	}
	if ok && current.ID == id {
		if err := sessions.Login(users[idx]); err != nil {
			return User{}, fmt.Errorf("refresh session: %w", err)
		}
	}
	return users[idx], nil
}

// ChangePassword checks the current password first, then the confirmation,
// then the minimum length, and only then overwrites the stored password.
func (r *Users) ChangePassword(id int64, current, newPassword, confirm string) error {
	users, err := r.All()
	if err != nil {
		return err
	}
	idx := -1
	for i, u := range users {
		if u.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrUserNotFound
	}
	if users[idx].Password != current {
		return ErrWrongPassword
	}
	if newPassword != confirm {
		return ErrPasswordMismatch
	}
	if len(newPassword) < MinPasswordLen {
		return ErrPasswordTooShort
	}
	users[idx].Password = newPassword
	return r.save(users)
}
