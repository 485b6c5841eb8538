package models

import (
	"sort"
	"strings"

	"github.com/jonboulle/clockwork"

	"forum/internal/store"
)

// Posts reads and writes the reply collection.
type Posts struct {
	store *store.Store
	clock clockwork.Clock
}

func NewPosts(st *store.Store, clock clockwork.Clock) *Posts {
	return &Posts{store: st, clock: clock}
}

func (r *Posts) List() ([]Post, error) {
	var posts []Post
	if err := r.store.Load(store.SlotPosts, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// ListByTopic returns the topic's posts oldest-first, chronological
// reading order.
func (r *Posts) ListByTopic(topicID int64) ([]Post, error) {
	posts, err := r.List()
	if err != nil {
		return nil, err
	}
	var out []Post
	for _, p := range posts {
		if p.TopicID == topicID {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *Posts) CountByTopic(topicID int64) (int, error) {
	posts, err := r.List()
	if err != nil {
		return 0, err
	}
	n := 0
	for _, p := range posts {
		if p.TopicID == topicID {
			n++
		}
	}
	return n, nil
}

func (r *Posts) Create(topicID, userID int64, content string) (Post, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return Post{}, ErrEmptyField
	}
	posts, err := r.List()
	if err != nil {
		return Post{}, err
	}
	now := r.clock.Now()
	post := Post{
		ID:        now.UnixMilli(),
		TopicID:   topicID,
		UserID:    userID,
		Content:   content,
		CreatedAt: now,
	}
	posts = append(posts, post)
	if err := r.store.Save(store.SlotPosts, posts); err != nil {
		return Post{}, err
	}
	return post, nil
}
