package ingest

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"literature/internal/catalog"
	"literature/internal/platform/gutendex"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSourceClient struct {
	mock.Mock
}

func (m *mockSourceClient) Search(ctx context.Context, query string) ([]gutendex.Book, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]gutendex.Book), args.Error(1)
}

// failingRepo wraps a MemoryRepo and fails saves on demand.
type failingRepo struct {
	*catalog.MemoryRepo
	bookErr   error
	authorErr error
	lookupErr error
}

func (r *failingRepo) SaveBook(ctx context.Context, b *catalog.Book) error {
	if r.bookErr != nil {
		return r.bookErr
	}
	return r.MemoryRepo.SaveBook(ctx, b)
}

func (r *failingRepo) SaveAuthor(ctx context.Context, a *catalog.Author) error {
	if r.authorErr != nil {
		return r.authorErr
	}
	return r.MemoryRepo.SaveAuthor(ctx, a)
}

func (r *failingRepo) FindBookByTitleContaining(ctx context.Context, title string) (catalog.Book, error) {
	if r.lookupErr != nil {
		return catalog.Book{}, r.lookupErr
	}
	return r.MemoryRepo.FindBookByTitleContaining(ctx, title)
}

func TestService_Ingest(t *testing.T) {
	ctx := context.Background()
	dune := catalog.Book{Title: "Dune", Languages: []string{"en"}}
	herbert := catalog.Author{Name: "Frank Herbert", BirthYear: intPtr(1920), DeathYear: intPtr(1986)}

	t.Run("idempotent", func(t *testing.T) {
		repo := catalog.NewMemoryRepo()
		s := NewService(new(mockSourceClient), repo)

		first := s.Ingest(ctx, dune, herbert)
		assert.Equal(t, Registered, first.Book.Outcome)
		assert.Equal(t, Registered, first.Author.Outcome)

		second := s.Ingest(ctx, dune, herbert)
		assert.Equal(t, AlreadyRegistered, second.Book.Outcome)
		assert.Equal(t, AlreadyRegistered, second.Author.Outcome)

		books, _ := repo.CountBooks(ctx)
		authors, _ := repo.CountAuthors(ctx)
		assert.Equal(t, 1, books)
		assert.Equal(t, 1, authors)
	})

	t.Run("book and author checks are independent", func(t *testing.T) {
		repo := catalog.NewMemoryRepo()
		require.NoError(t, repo.SaveBook(ctx, &catalog.Book{Title: "Dune"}))
		s := NewService(new(mockSourceClient), repo)

		report := s.Ingest(ctx, dune, herbert)
		assert.Equal(t, AlreadyRegistered, report.Book.Outcome)
		assert.Equal(t, Registered, report.Author.Outcome)
	})

	t.Run("substring of a stored title counts as registered", func(t *testing.T) {
		repo := catalog.NewMemoryRepo()
		require.NoError(t, repo.SaveBook(ctx, &catalog.Book{Title: "Dune Messiah"}))
		s := NewService(new(mockSourceClient), repo)

		report := s.Ingest(ctx, dune, herbert)
		assert.Equal(t, AlreadyRegistered, report.Book.Outcome)
	})

	t.Run("author without name is skipped", func(t *testing.T) {
		repo := catalog.NewMemoryRepo()
		s := NewService(new(mockSourceClient), repo)

		report := s.Ingest(ctx, dune, catalog.Author{})
		assert.Equal(t, Registered, report.Book.Outcome)
		assert.Equal(t, Skipped, report.Author.Outcome)

		authors, _ := repo.CountAuthors(ctx)
		assert.Zero(t, authors)
	})

	t.Run("book write failure does not stop author", func(t *testing.T) {
		repo := &failingRepo{MemoryRepo: catalog.NewMemoryRepo(), bookErr: errors.New("unique violation")}
		s := NewService(new(mockSourceClient), repo)

		report := s.Ingest(ctx, dune, herbert)
		assert.Equal(t, Failed, report.Book.Outcome)
		var writeErr *StoreWriteError
		require.ErrorAs(t, report.Book.Err, &writeErr)
		assert.Equal(t, "book", writeErr.Entity)
		assert.EqualError(t, report.Book.Err, "save book: unique violation")
		assert.Equal(t, Registered, report.Author.Outcome)
	})

	t.Run("author write failure is reported", func(t *testing.T) {
		repo := &failingRepo{MemoryRepo: catalog.NewMemoryRepo(), authorErr: errors.New("db down")}
		s := NewService(new(mockSourceClient), repo)

		report := s.Ingest(ctx, dune, herbert)
		assert.Equal(t, Registered, report.Book.Outcome)
		assert.Equal(t, Failed, report.Author.Outcome)
		assert.ErrorContains(t, report.Author.Err, "db down")
	})

	t.Run("lookup failure is reported for that entity only", func(t *testing.T) {
		repo := &failingRepo{MemoryRepo: catalog.NewMemoryRepo(), lookupErr: errors.New("timeout")}
		s := NewService(new(mockSourceClient), repo)

		report := s.Ingest(ctx, dune, herbert)
		assert.Equal(t, Failed, report.Book.Outcome)
		assert.Equal(t, Registered, report.Author.Outcome)
	})
}

func TestService_SearchAndRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("registers first result", func(t *testing.T) {
		client := new(mockSourceClient)
		repo := catalog.NewMemoryRepo()
		s := NewService(client, repo)

		client.On("Search", ctx, "dune").Return([]gutendex.Book{
			{ID: 1, Title: strPtr("Dune"), Authors: []gutendex.Person{{Name: "Frank Herbert"}}},
			{ID: 2, Title: strPtr("Children of Dune")},
		}, nil)

		report, err := s.SearchAndRegister(ctx, "dune")
		require.NoError(t, err)
		assert.Equal(t, "Dune", report.Title)
		assert.Equal(t, "Frank Herbert", report.AuthorName)
		assert.Equal(t, Registered, report.Book.Outcome)
		assert.Equal(t, Registered, report.Author.Outcome)

		books, err := repo.ListBooks(ctx)
		require.NoError(t, err)
		require.Len(t, books, 1)
		assert.Equal(t, "Dune", books[0].Title)
		client.AssertExpectations(t)
	})

	t.Run("no results", func(t *testing.T) {
		client := new(mockSourceClient)
		s := NewService(client, catalog.NewMemoryRepo())
		client.On("Search", ctx, "zzzz").Return([]gutendex.Book{}, nil)

		_, err := s.SearchAndRegister(ctx, "zzzz")
		assert.ErrorIs(t, err, ErrBookNotFound)
	})

	t.Run("malformed first result", func(t *testing.T) {
		client := new(mockSourceClient)
		repo := catalog.NewMemoryRepo()
		s := NewService(client, repo)
		client.On("Search", ctx, "x").Return([]gutendex.Book{{ID: 9}}, nil)

		_, err := s.SearchAndRegister(ctx, "x")
		assert.ErrorIs(t, err, ErrMalformedPayload)

		books, _ := repo.CountBooks(ctx)
		assert.Zero(t, books)
	})

	t.Run("source failure", func(t *testing.T) {
		client := new(mockSourceClient)
		s := NewService(client, catalog.NewMemoryRepo())
		client.On("Search", ctx, "x").Return(nil, fmt.Errorf("unexpected status code: 503"))

		_, err := s.SearchAndRegister(ctx, "x")
		assert.ErrorContains(t, err, "503")
	})
}

func TestOutcome_String(t *testing.T) {
	assert.Equal(t, "registered", Registered.String())
	assert.Equal(t, "already registered", AlreadyRegistered.String())
	assert.Equal(t, "failed", Failed.String())
	assert.Equal(t, "skipped", Skipped.String())
}
