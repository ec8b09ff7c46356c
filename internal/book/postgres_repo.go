package book

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepo implements Repository on a pgx connection pool. Every query
// carries the owner_id predicate so ownership scoping happens in the store.
type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

const bookColumns = `id, owner_id, title, author, tags, status, notes, date_added, date_completed, created_at, updated_at`

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike neutralizes LIKE metacharacters so a search term always
// matches literally.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func scanBook(row pgx.Row) (Book, error) {
	var b Book
	err := row.Scan(
		&b.ID, &b.OwnerID, &b.Title, &b.Author, &b.Tags, &b.Status, &b.Notes,
		&b.DateAdded, &b.DateCompleted, &b.CreatedAt, &b.UpdatedAt,
	)
	return b, err
}

func (r *PostgresRepo) Find(ctx context.Context, ownerID string, f Filter) ([]Book, error) {
	query := `
		SELECT ` + bookColumns + `
		FROM books
		WHERE owner_id = $1
	`
	args := []any{ownerID}
	argn := 2

	if f.Status != "" && f.Status != StatusAll {
		query += ` AND status = $2`
		args = append(args, f.Status)
		argn++
	}
	if f.Tag != "" {
		query += ` AND tags @> ARRAY[$` + strconv.Itoa(argn) + `]`
		args = append(args, f.Tag)
		argn++
	}
	if f.Search != "" {
		query += ` AND (title ILIKE $` + strconv.Itoa(argn) + ` OR author ILIKE $` + strconv.Itoa(argn) + `)`
		args = append(args, "%"+escapeLike(f.Search)+"%")
		argn++
	}
	query += ` ORDER BY created_at DESC`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// FindOne returns ErrNotFound for an unknown or foreign id. An id that is
// not a valid UUID fails the cast in Postgres and surfaces as a storage
// error instead.
func (r *PostgresRepo) FindOne(ctx context.Context, ownerID, id string) (Book, error) {
	const query = `
		SELECT ` + bookColumns + `
		FROM books
		WHERE id = $1 AND owner_id = $2
		LIMIT 1
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	b, err := scanBook(r.db.QueryRow(timeoutCtx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Book{}, ErrNotFound
		}
		return Book{}, err
	}
	return b, nil
}

func (r *PostgresRepo) Insert(ctx context.Context, b *Book) error {
	const query = `
		INSERT INTO books (id, owner_id, title, author, tags, status, notes, date_completed)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6, $7)
		RETURNING id, date_added, created_at, updated_at
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	return r.db.QueryRow(timeoutCtx, query,
		b.OwnerID, b.Title, b.Author, b.Tags, b.Status, b.Notes, b.DateCompleted,
	).Scan(&b.ID, &b.DateAdded, &b.CreatedAt, &b.UpdatedAt)
}

func (r *PostgresRepo) Replace(ctx context.Context, ownerID, id string, b Book) (Book, error) {
	const query = `
		UPDATE books
		SET title = $3, author = $4, tags = $5, status = $6, notes = $7, date_completed = $8, updated_at = now()
		WHERE id = $1 AND owner_id = $2
		RETURNING ` + bookColumns + `
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	updated, err := scanBook(r.db.QueryRow(timeoutCtx, query,
		id, ownerID, b.Title, b.Author, b.Tags, b.Status, b.Notes, b.DateCompleted,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Book{}, ErrNotFound
		}
		return Book{}, err
	}
	return updated, nil
}

func (r *PostgresRepo) Delete(ctx context.Context, ownerID, id string) error {
	const query = `DELETE FROM books WHERE id = $1 AND owner_id = $2`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, query, id, ownerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepo) CountByStatus(ctx context.Context, ownerID string) (map[Status]int, int, error) {
	const query = `
		SELECT status, COUNT(*)
		FROM books
		WHERE owner_id = $1
		GROUP BY status
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query, ownerID)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	counts := make(map[Status]int)
	total := 0
	for rows.Next() {
		var status Status
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, 0, err
		}
		counts[status] = count
		total += count
	}
	return counts, total, rows.Err()
}

func (r *PostgresRepo) Recent(ctx context.Context, ownerID string, limit int) ([]RecentBook, error) {
	const query = `
		SELECT id, title, author, status, created_at
		FROM books
		WHERE owner_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query, ownerID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RecentBook
	for rows.Next() {
		var rb RecentBook
		if err := rows.Scan(&rb.ID, &rb.Title, &rb.Author, &rb.Status, &rb.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rb)
	}
	return out, rows.Err()
}
