package book

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a book does not exist or is not owned by the
// requesting user. The two cases are deliberately indistinguishable.
var ErrNotFound = errors.New("book not found")

// Status is the reading status of a book.
type Status string

const (
	StatusWantToRead Status = "want-to-read"
	StatusReading    Status = "reading"
	StatusCompleted  Status = "completed"
)

// StatusAll is the filter sentinel that matches every status.
const StatusAll = "all"

// ValidStatus reports whether s is one of the three reading statuses.
func ValidStatus(s Status) bool {
	switch s {
	case StatusWantToRead, StatusReading, StatusCompleted:
		return true
	}
	return false
}

// Book is one reading-list entry, always owned by a single user.
type Book struct {
	ID            string     `json:"id"`
	OwnerID       string     `json:"owner_id"`
	Title         string     `json:"title"`
	Author        string     `json:"author"`
	Tags          []string   `json:"tags"`
	Status        Status     `json:"status"`
	Notes         string     `json:"notes,omitempty"`
	DateAdded     time.Time  `json:"date_added"`
	DateCompleted *time.Time `json:"date_completed,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// RecentBook is the reduced projection returned by the stats endpoint.
type RecentBook struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// Stats holds per-status counts for one user. Every bucket is present even
// when it is zero.
type Stats struct {
	Total      int `json:"total"`
	WantToRead int `json:"want-to-read"`
	Reading    int `json:"reading"`
	Completed  int `json:"completed"`
}

// Filter narrows a listing. Zero values impose no constraint; supplied
// criteria combine with AND.
type Filter struct {
	// Status matches exactly, unless empty or the "all" sentinel.
	Status string
	// Tag must be contained in the book's tag list (case-sensitive).
	Tag string
	// Search is a case-insensitive substring match on title OR author.
	Search string
}
