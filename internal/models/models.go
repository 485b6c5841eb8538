package models

import "time"

// JSON field names match the persisted slot records (camelCase keys,
// RFC 3339 timestamps).

type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Password  string    `json:"password"`
	CreatedAt time.Time `json:"createdAt"`
}

// SessionUser is the reduced copy of a User held in the current-user slot.
// It is a copy, not a reference: it can drift from the Users collection
// until the next login.
type SessionUser struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type Category struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Topic struct {
	ID         int64     `json:"id"`
	CategoryID int64     `json:"categoryId"`
	UserID     int64     `json:"userId"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"createdAt"`
}

type Post struct {
	ID        int64     `json:"id"`
	TopicID   int64     `json:"topicId"`
	UserID    int64     `json:"userId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// UnknownName is the placeholder shown when a topic or post references a
// user or category id that no longer resolves. Dangling references are
// tolerated, not repaired.
const UnknownName = "unknown"

// ResolveUsername returns the username for id, or the unknown placeholder.
func ResolveUsername(users []User, id int64) string {
	for _, u := range users {
		if u.ID == id {
			return u.Username
		}
	}
	return UnknownName
}
