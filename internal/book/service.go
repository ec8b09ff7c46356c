package book

import (
	"context"
	"time"
)

// RecentLimit is how many books the stats endpoint lists.
const RecentLimit = 5

// Service implements the book resource operations on top of a Repository,
// enforcing ownership scoping and the status lifecycle rules.
type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

// List returns the user's books matching f, newest first.
func (s *Service) List(ctx context.Context, userID string, f Filter) ([]Book, error) {
	return s.repo.Find(ctx, userID, f)
}

// Get returns one owned book.
func (s *Service) Get(ctx context.Context, userID, id string) (Book, error) {
	return s.repo.FindOne(ctx, userID, id)
}

// Create validates the input and stores a new book owned by the user.
// Validation runs before any storage write.
func (s *Service) Create(ctx context.Context, userID string, in CreateInput) (Book, error) {
	b, err := ValidateCreate(in)
	if err != nil {
		return Book{}, err
	}
	b.OwnerID = userID
	if b.Status == StatusCompleted {
		b = ApplyStatusTransition(b, StatusCompleted, s.now())
	}
	if err := s.repo.Insert(ctx, &b); err != nil {
		return Book{}, err
	}
	return b, nil
}

// Update applies a partial update to an owned book. The owned lookup doubles
// as the ownership check; the merged result is written back atomically.
func (s *Service) Update(ctx context.Context, userID, id string, in UpdateInput) (Book, error) {
	in, err := ValidateUpdate(in)
	if err != nil {
		return Book{}, err
	}

	current, err := s.repo.FindOne(ctx, userID, id)
	if err != nil {
		return Book{}, err
	}

	merged := Merge(current, in)
	if merged.Status != current.Status {
		merged = ApplyStatusTransition(merged, merged.Status, s.now())
	}

	return s.repo.Replace(ctx, userID, id, merged)
}

// Delete removes an owned book.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	return s.repo.Delete(ctx, userID, id)
}

// Stats aggregates per-status counts and the most recently added books.
// All three buckets are initialized to zero before the aggregation result
// is overlaid, so empty statuses still appear.
func (s *Service) Stats(ctx context.Context, userID string) (Stats, []RecentBook, error) {
	counts, total, err := s.repo.CountByStatus(ctx, userID)
	if err != nil {
		return Stats{}, nil, err
	}

	stats := Stats{
		Total:      total,
		WantToRead: counts[StatusWantToRead],
		Reading:    counts[StatusReading],
		Completed:  counts[StatusCompleted],
	}

	recent, err := s.repo.Recent(ctx, userID, RecentLimit)
	if err != nil {
		return Stats{}, nil, err
	}
	if recent == nil {
		recent = []RecentBook{}
	}
	return stats, recent, nil
}
