package catalog

import (
	"context"
	"sort"
)

// Service answers listing queries over the stored catalog.
type Service struct {
	repo Repository
}

// NewService creates a new catalog service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Stats holds the number of stored records.
type Stats struct {
	Books   int
	Authors int
}

// ListBooks returns every stored book ordered by title. An empty store
// yields an empty slice.
func (s *Service) ListBooks(ctx context.Context) ([]Book, error) {
	books, err := s.repo.ListBooks(ctx)
	if err != nil {
		return nil, err
	}
	sortBooks(books)
	return books, nil
}

// ListAuthors returns every stored author ordered by name.
func (s *Service) ListAuthors(ctx context.Context) ([]Author, error) {
	authors, err := s.repo.ListAuthors(ctx)
	if err != nil {
		return nil, err
	}
	sortAuthors(authors)
	return authors, nil
}

// AuthorsAliveIn returns the authors alive in year ordered by name, or
// ErrNoAuthorsAlive when there are none. Any year is accepted.
func (s *Service) AuthorsAliveIn(ctx context.Context, year int) ([]Author, error) {
	found, err := s.repo.FindAuthorsAliveInYear(ctx, year)
	if err != nil {
		return nil, err
	}
	authors := make([]Author, 0, len(found))
	for _, a := range found {
		if a.AliveIn(year) {
			authors = append(authors, a)
		}
	}
	if len(authors) == 0 {
		return nil, ErrNoAuthorsAlive
	}
	sortAuthors(authors)
	return authors, nil
}

// BooksByLanguage returns the books whose language codes contain code,
// ordered by title, or ErrNoBooksInLanguage when there are none.
func (s *Service) BooksByLanguage(ctx context.Context, code string) ([]Book, error) {
	found, err := s.repo.FindBooksByLanguageContaining(ctx, code)
	if err != nil {
		return nil, err
	}
	books := make([]Book, 0, len(found))
	for _, b := range found {
		if b.HasLanguage(code) {
			books = append(books, b)
		}
	}
	if len(books) == 0 {
		return nil, ErrNoBooksInLanguage
	}
	sortBooks(books)
	return books, nil
}

// Stats counts stored books and authors.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	books, err := s.repo.CountBooks(ctx)
	if err != nil {
		return Stats{}, err
	}
	authors, err := s.repo.CountAuthors(ctx)
	if err != nil {
		return Stats{}, err
	}
	return Stats{Books: books, Authors: authors}, nil
}

func sortBooks(books []Book) {
	sort.SliceStable(books, func(i, j int) bool {
		return books[i].Title < books[j].Title
	})
}

func sortAuthors(authors []Author) {
	sort.SliceStable(authors, func(i, j int) bool {
		return authors[i].Name < authors[j].Name
	})
}
