package comments

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/mgreer/miniblog/internal/common"
	"github.com/mgreer/miniblog/internal/server/models"
)

// InMemoryRepository is a map-backed Repository used by tests and the
// -memory development mode.
type InMemoryRepository struct {
	mu     sync.RWMutex
	nextID int64
	items  map[int64]*models.Comment
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{nextID: 1, items: map[int64]*models.Comment{}}
}

func (r *InMemoryRepository) Create(ctx context.Context, comment *models.Comment) (*models.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c := *comment
	c.ID = r.nextID
	c.CreatedAt = time.Now()
	c.LastModified = c.CreatedAt
	r.nextID++
	r.items[c.ID] = &c

	out := c
	return &out, nil
}

func (r *InMemoryRepository) GetByID(ctx context.Context, id int64) (*models.Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.items[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	out := *c
	return &out, nil
}

func (r *InMemoryRepository) ListByPost(ctx context.Context, postID int64) ([]*models.Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*models.Comment
	for _, c := range r.items {
		if c.PostID == postID {
			out := *c
			result = append(result, &out)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID > result[j].ID
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (r *InMemoryRepository) UpdateContent(ctx context.Context, id int64, content string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.items[id]
	if !ok {
		return common.ErrorNotFound
	}
	c.Content = content
	c.EditMode = false
	c.LastModified = time.Now()
	return nil
}

func (r *InMemoryRepository) SetEditMode(ctx context.Context, id int64, editMode bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.items[id]
	if !ok {
		return common.ErrorNotFound
	}
	c.EditMode = editMode
	return nil
}

func (r *InMemoryRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.items, id)
	return nil
}

func (r *InMemoryRepository) DeleteByPost(ctx context.Context, postID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, c := range r.items {
		if c.PostID == postID {
			delete(r.items, id)
		}
	}
	return nil
}
