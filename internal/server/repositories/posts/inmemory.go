package posts

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
	items  map[int64]*models.Post
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{nextID: 1, items: map[int64]*models.Post{}}
}

func (r *InMemoryRepository) Create(ctx context.Context, post *models.Post) (*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := *post
	p.ID = r.nextID
	p.CreatedAt = time.Now()
	p.LastModified = p.CreatedAt
	r.nextID++
	r.items[p.ID] = &p

	out := p
	return &out, nil
}

func (r *InMemoryRepository) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.items[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	out := *p
	return &out, nil
}

func (r *InMemoryRepository) Recent(ctx context.Context, limit int) ([]*models.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*models.Post, 0, len(r.items))
	for _, p := range r.items {
		out := *p
		result = append(result, &out)
	}
	// Creation time descending, id as a stable tiebreaker.
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID > result[j].ID
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (r *InMemoryRepository) UpdateContent(ctx context.Context, id int64, content string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.items[id]
	if !ok {
		return common.ErrorNotFound
	}
	p.Content = content
	p.LastModified = time.Now()
	return nil
}

func (r *InMemoryRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.items, id)
	return nil
}
