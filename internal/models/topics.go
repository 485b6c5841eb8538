package models

import (
	"sort"
	"strings"

	"github.com/jonboulle/clockwork"

	"forum/internal/store"
)

// Topics reads and writes the topic collection. The categoryId and userId
// references are plain identifiers; dangling values are tolerated and
// resolved to a placeholder at read time.
type Topics struct {
	store *store.Store
	clock clockwork.Clock
}

func NewTopics(st *store.Store, clock clockwork.Clock) *Topics {
	return &Topics{store: st, clock: clock}
}

func (r *Topics) List() ([]Topic, error) {
	var topics []Topic
	if err := r.store.Load(store.SlotTopics, &topics); err != nil {
		return nil, err
	}
	return topics, nil
}

// ListByCategory returns the category's topics newest-first.
func (r *Topics) ListByCategory(categoryID int64) ([]Topic, error) {
	topics, err := r.List()
	if err != nil {
		return nil, err
	}
	var out []Topic
	for _, t := range topics {
		if t.CategoryID == categoryID {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *Topics) Get(id int64) (Topic, bool, error) {
	topics, err := r.List()
	if err != nil {
		return Topic{}, false, err
	}
	for _, t := range topics {
		if t.ID == id {
			return t, true, nil
		}
	}
	return Topic{}, false, nil
}

func (r *Topics) CountByCategory(categoryID int64) (int, error) {
	topics, err := r.List()
	if err != nil {
		return 0, err
	}
	n := 0
	for _, t := range topics {
		if t.CategoryID == categoryID {
			n++
		}
	}
	return n, nil
}

func (r *Topics) Create(categoryID, userID int64, title, content string) (Topic, error) {
	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)
	if title == "" || content == "" {
		return Topic{}, ErrEmptyField
	}
	topics, err := r.List()
	if err != nil {
		return Topic{}, err
	}
	now := r.clock.Now()
	topic := Topic{
		ID:         now.UnixMilli(),
		CategoryID: categoryID,
		UserID:     userID,
		Title:      title,
		Content:    content,
		CreatedAt:  now,
	}
	topics = append(topics, topic)
	if err := r.store.Save(store.SlotTopics, topics); err != nil {
		return Topic{}, err
	}
	return topic, nil
}
