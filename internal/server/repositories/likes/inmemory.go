package likes

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/mgreer/miniblog/internal/server/models"
)

// InMemoryRepository is a map-backed Repository used by tests and the
// -memory development mode.
type InMemoryRepository struct {
	mu     sync.RWMutex
	nextID int64
	items  map[int64]*models.Like
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{nextID: 1, items: map[int64]*models.Like{}}
}

func (r *InMemoryRepository) Create(ctx context.Context, like *models.Like) (*models.Like, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	l := *like
	l.ID = r.nextID
	l.CreatedAt = time.Now()
	l.LastModified = l.CreatedAt
	r.nextID++
	r.items[l.ID] = &l

	out := l
	return &out, nil
}

func (r *InMemoryRepository) ListByPost(ctx context.Context, postID int64) ([]*models.Like, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*models.Like
	for _, l := range r.items {
		if l.PostID == postID {
			out := *l
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

func (r *InMemoryRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.items, id)
	return nil
}

func (r *InMemoryRepository) DeleteByPost(ctx context.Context, postID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, l := range r.items {
		if l.PostID == postID {
			delete(r.items, id)
		}
	}
	return nil
}
