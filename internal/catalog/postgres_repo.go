package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Containment uses strpos rather than LIKE so that '%' and '_' in user
// input stay literal and the comparison stays case-sensitive.
const (
	bookColumns   = `id, title, subjects, bookshelves, languages, download_count, author_name, created_at`
	authorColumns = `id, name, birth_year, death_year, created_at`
)

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

func (r *PostgresRepo) FindBookByTitleContaining(ctx context.Context, title string) (Book, error) {
	query := `
		SELECT ` + bookColumns + `
		FROM books
		WHERE strpos(title, $1) > 0
		ORDER BY created_at
		LIMIT 1`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	b, err := scanBook(r.db.QueryRow(timeoutCtx, query, title))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Book{}, ErrNotFound
		}
		return Book{}, fmt.Errorf("find book by title: %w", err)
	}
	return b, nil
}

func (r *PostgresRepo) FindAuthorByNameContaining(ctx context.Context, name string) (Author, error) {
	query := `
		SELECT ` + authorColumns + `
		FROM authors
		WHERE strpos(name, $1) > 0
		ORDER BY created_at
		LIMIT 1`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	a, err := scanAuthor(r.db.QueryRow(timeoutCtx, query, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Author{}, ErrNotFound
		}
		return Author{}, fmt.Errorf("find author by name: %w", err)
	}
	return a, nil
}

func (r *PostgresRepo) ListBooks(ctx context.Context) ([]Book, error) {
	return r.queryBooks(ctx, `SELECT `+bookColumns+` FROM books`)
}

func (r *PostgresRepo) ListAuthors(ctx context.Context) ([]Author, error) {
	return r.queryAuthors(ctx, `SELECT `+authorColumns+` FROM authors`)
}

// FindAuthorsAliveInYear relies on NULL comparisons being false, so
// authors missing either year never match.
func (r *PostgresRepo) FindAuthorsAliveInYear(ctx context.Context, year int) ([]Author, error) {
	query := `
		SELECT ` + authorColumns + `
		FROM authors
		WHERE birth_year <= $1 AND death_year >= $1`
	return r.queryAuthors(ctx, query, year)
}

func (r *PostgresRepo) FindBooksByLanguageContaining(ctx context.Context, code string) ([]Book, error) {
	query := `
		SELECT ` + bookColumns + `
		FROM books
		WHERE EXISTS (SELECT 1 FROM unnest(languages) AS l WHERE strpos(l, $1) > 0)`
	return r.queryBooks(ctx, query, code)
}

func (r *PostgresRepo) SaveBook(ctx context.Context, b *Book) error {
	const sql = `
		INSERT INTO books (title, subjects, bookshelves, languages, download_count, author_name)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, sql,
		b.Title, nonNil(b.Subjects), nonNil(b.Bookshelves), nonNil(b.Languages), b.DownloadCount, b.AuthorName,
	).Scan(&b.ID, &b.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert book: %w", err)
	}
	return nil
}

func (r *PostgresRepo) SaveAuthor(ctx context.Context, a *Author) error {
	const sql = `
		INSERT INTO authors (name, birth_year, death_year)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, sql, a.Name, a.BirthYear, a.DeathYear).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert author: %w", err)
	}
	return nil
}

func (r *PostgresRepo) CountBooks(ctx context.Context) (int, error) {
	return r.count(ctx, "SELECT COUNT(*) FROM books")
}

func (r *PostgresRepo) CountAuthors(ctx context.Context) (int, error) {
	return r.count(ctx, "SELECT COUNT(*) FROM authors")
}

func (r *PostgresRepo) count(ctx context.Context, query string) (int, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	var n int
	err := r.db.QueryRow(timeoutCtx, query).Scan(&n)
	return n, err
}

func (r *PostgresRepo) queryBooks(ctx context.Context, query string, args ...any) ([]Book, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Book{}
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) queryAuthors(ctx context.Context, query string, args ...any) ([]Author, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Author{}
	for rows.Next() {
		a, err := scanAuthor(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func scanBook(row pgx.Row) (Book, error) {
	var b Book
	err := row.Scan(
		&b.ID, &b.Title, &b.Subjects, &b.Bookshelves, &b.Languages,
		&b.DownloadCount, &b.AuthorName, &b.CreatedAt,
	)
	return b, err
}

func scanAuthor(row pgx.Row) (Author, error) {
	var a Author
	err := row.Scan(&a.ID, &a.Name, &a.BirthYear, &a.DeathYear, &a.CreatedAt)
	return a, err
}

// nonNil keeps text[] columns from receiving NULL.
func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
