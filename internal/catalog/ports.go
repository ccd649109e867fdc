package catalog

import (
	"context"
)

//go:generate mockgen -source=ports.go -destination=mock_repository.go -package=catalog

// Repository defines the contract for book and author storage.
// Containment lookups are case-sensitive: a stored value matches when it
// contains the given text as a contiguous substring.
type Repository interface {
	FindBookByTitleContaining(ctx context.Context, title string) (Book, error)
	FindAuthorByNameContaining(ctx context.Context, name string) (Author, error)
	ListBooks(ctx context.Context) ([]Book, error)
	ListAuthors(ctx context.Context) ([]Author, error)
	FindAuthorsAliveInYear(ctx context.Context, year int) ([]Author, error)
	FindBooksByLanguageContaining(ctx context.Context, code string) ([]Book, error)
	SaveBook(ctx context.Context, book *Book) error
	SaveAuthor(ctx context.Context, author *Author) error
	CountBooks(ctx context.Context) (int, error)
	CountAuthors(ctx context.Context) (int, error)
}
