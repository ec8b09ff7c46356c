package book

import (
	"context"
)

// Repository is the storage contract the resource service needs. Every
// operation is scoped to the owning user; a book owned by someone else is
// reported as ErrNotFound.
type Repository interface {
	// Find returns the owner's books matching f, newest first.
	Find(ctx context.Context, ownerID string, f Filter) ([]Book, error)
	// FindOne returns one owned book by id.
	FindOne(ctx context.Context, ownerID, id string) (Book, error)
	// Insert stores a new book and populates id and timestamps.
	Insert(ctx context.Context, b *Book) error
	// Replace overwrites an owned book in one atomic write and returns the
	// stored result.
	Replace(ctx context.Context, ownerID, id string, b Book) (Book, error)
	// Delete removes an owned book.
	Delete(ctx context.Context, ownerID, id string) error
	// CountByStatus groups the owner's books by status in one pass and also
	// returns the total.
	CountByStatus(ctx context.Context, ownerID string) (map[Status]int, int, error)
	// Recent returns the owner's newest books, projected to the reduced
	// field set.
	Recent(ctx context.Context, ownerID string, limit int) ([]RecentBook, error)
}
