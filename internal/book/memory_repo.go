package book

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepo is an in-process Repository, used as the storage double in
// the service tests.
type MemoryRepo struct {
	mu    sync.RWMutex
	books map[string]Book
	order []string // insertion order, oldest first
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{books: make(map[string]Book)}
}

func matches(b Book, f Filter) bool {
	if f.Status != "" && f.Status != StatusAll && string(b.Status) != f.Status {
		return false
	}
	if f.Tag != "" && !slices.Contains(b.Tags, f.Tag) {
		return false
	}
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(b.Title), needle) &&
			!strings.Contains(strings.ToLower(b.Author), needle) {
			return false
		}
	}
	return true
}

func (r *MemoryRepo) Find(ctx context.Context, ownerID string, f Filter) ([]Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Book
	// newest first; insertion order breaks creation-time ties
	for i := len(r.order) - 1; i >= 0; i-- {
		b, ok := r.books[r.order[i]]
		if !ok || b.OwnerID != ownerID {
			continue
		}
		if matches(b, f) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *MemoryRepo) FindOne(ctx context.Context, ownerID, id string) (Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.books[id]
	if !ok || b.OwnerID != ownerID {
		return Book{}, ErrNotFound
	}
	return b, nil
}

func (r *MemoryRepo) Insert(ctx context.Context, b *Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	b.ID = uuid.NewString()
	b.DateAdded = now
	b.CreatedAt = now
	b.UpdatedAt = now
	r.books[b.ID] = *b
	r.order = append(r.order, b.ID)
	return nil
}

func (r *MemoryRepo) Replace(ctx context.Context, ownerID, id string, b Book) (Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.books[id]
	if !ok || current.OwnerID != ownerID {
		return Book{}, ErrNotFound
	}
	b.ID = current.ID
	b.OwnerID = current.OwnerID
	b.DateAdded = current.DateAdded
	b.CreatedAt = current.CreatedAt
	b.UpdatedAt = time.Now().UTC()
	r.books[id] = b
	return b, nil
}

func (r *MemoryRepo) Delete(ctx context.Context, ownerID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.books[id]
	if !ok || b.OwnerID != ownerID {
		return ErrNotFound
	}
	delete(r.books, id)
	r.order = slices.DeleteFunc(r.order, func(s string) bool { return s == id })
	return nil
}

func (r *MemoryRepo) CountByStatus(ctx context.Context, ownerID string) (map[Status]int, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	counts := make(map[Status]int)
	total := 0
	for _, b := range r.books {
		if b.OwnerID != ownerID {
			continue
		}
		counts[b.Status]++
		total++
	}
	return counts, total, nil
}

func (r *MemoryRepo) Recent(ctx context.Context, ownerID string, limit int) ([]RecentBook, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []RecentBook
	for i := len(r.order) - 1; i >= 0 && len(out) < limit; i-- {
		b, ok := r.books[r.order[i]]
		if !ok || b.OwnerID != ownerID {
			continue
		}
		out = append(out, RecentBook{
			ID:        b.ID,
			Title:     b.Title,
			Author:    b.Author,
			Status:    b.Status,
			CreatedAt: b.CreatedAt,
		})
	}
	return out, nil
}
