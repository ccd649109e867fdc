package catalog

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepo is a process-local Repository. Records live in insertion
// order and are lost when the process exits.
type MemoryRepo struct {
	mu      sync.RWMutex
	books   []Book
	authors []Author
	now     func() time.Time
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{now: time.Now}
}

func (r *MemoryRepo) FindBookByTitleContaining(_ context.Context, title string) (Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, b := range r.books {
		if strings.Contains(b.Title, title) {
			return cloneBook(b), nil
		}
	}
	return Book{}, ErrNotFound
}

func (r *MemoryRepo) FindAuthorByNameContaining(_ context.Context, name string) (Author, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, a := range r.authors {
		if strings.Contains(a.Name, name) {
			return a, nil
		}
	}
	return Author{}, ErrNotFound
}

func (r *MemoryRepo) ListBooks(_ context.Context) ([]Book, error) {
	return r.filterBooks(func(Book) bool { return true }), nil
}

func (r *MemoryRepo) ListAuthors(_ context.Context) ([]Author, error) {
	return r.filterAuthors(func(Author) bool { return true }), nil
}

func (r *MemoryRepo) FindAuthorsAliveInYear(_ context.Context, year int) ([]Author, error) {
	return r.filterAuthors(func(a Author) bool { return a.AliveIn(year) }), nil
}

func (r *MemoryRepo) FindBooksByLanguageContaining(_ context.Context, code string) ([]Book, error) {
	return r.filterBooks(func(b Book) bool { return b.HasLanguage(code) }), nil
}

func (r *MemoryRepo) SaveBook(_ context.Context, b *Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b.ID = uuid.NewString()
	b.CreatedAt = r.now()
	r.books = append(r.books, cloneBook(*b))
	return nil
}

func (r *MemoryRepo) SaveAuthor(_ context.Context, a *Author) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a.ID = uuid.NewString()
	a.CreatedAt = r.now()
	r.authors = append(r.authors, *a)
	return nil
}

func (r *MemoryRepo) CountBooks(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.books), nil
}

func (r *MemoryRepo) CountAuthors(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.authors), nil
}

func (r *MemoryRepo) filterBooks(keep func(Book) bool) []Book {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []Book{}
	for _, b := range r.books {
		if keep(b) {
			out = append(out, cloneBook(b))
		}
	}
	return out
}

func (r *MemoryRepo) filterAuthors(keep func(Author) bool) []Author {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []Author{}
	for _, a := range r.authors {
		if keep(a) {
			out = append(out, a)
		}
	}
	return out
}

func cloneBook(b Book) Book {
	b.Subjects = append([]string(nil), b.Subjects...)
	b.Bookshelves = append([]string(nil), b.Bookshelves...)
	b.Languages = append([]string(nil), b.Languages...)
	return b
}
