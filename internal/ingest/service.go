package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"literature/internal/catalog"
	"literature/internal/platform/gutendex"
)

type SourceClient interface {
	Search(ctx context.Context, query string) ([]gutendex.Book, error)
}

type Service struct {
	client SourceClient
	repo   catalog.Repository
}

func NewService(client SourceClient, repo catalog.Repository) *Service {
	return &Service{
		client: client,
		repo:   repo,
	}
}

// SearchAndRegister looks title up in the source, normalizes the first
// result and ingests it. ErrBookNotFound and ErrMalformedPayload abort the
// attempt; store failures are reported per entity in the Report.
func (s *Service) SearchAndRegister(ctx context.Context, title string) (Report, error) {
	results, err := s.client.Search(ctx, title)
	if err != nil {
		return Report{}, fmt.Errorf("search %q: %w", title, err)
	}
	slog.Debug("Search completed", "query", title, "results", len(results))

	entry, ok := SelectBestMatch(results)
	if !ok {
		return Report{}, ErrBookNotFound
	}

	book, author, err := Normalize(entry)
	if err != nil {
		return Report{}, err
	}
	return s.Ingest(ctx, book, author), nil
}

// Ingest persists book and author unless a stored record already contains
// them. The two checks are independent of each other.
func (s *Service) Ingest(ctx context.Context, book catalog.Book, author catalog.Author) Report {
	report := Report{
		Title:      book.Title,
		AuthorName: author.Name,
	}

	report.Book = s.ingestBook(ctx, &book)
	if author.IsZero() {
		report.Author = Result{Outcome: Skipped}
	} else {
		report.Author = s.ingestAuthor(ctx, &author)
	}
	return report
}

func (s *Service) ingestBook(ctx context.Context, book *catalog.Book) Result {
	_, err := s.repo.FindBookByTitleContaining(ctx, book.Title)
	switch {
	case err == nil:
		slog.Info("Book already registered", "title", book.Title)
		return Result{Outcome: AlreadyRegistered}
	case !errors.Is(err, catalog.ErrNotFound):
		slog.Error("Failed to look up book", "title", book.Title, "error", err)
		return Result{Outcome: Failed, Err: fmt.Errorf("look up book: %w", err)}
	}

	if err := s.repo.SaveBook(ctx, book); err != nil {
		slog.Error("Failed to save book", "title", book.Title, "error", err)
		return Result{Outcome: Failed, Err: &StoreWriteError{Entity: "book", Err: err}}
	}
	slog.Info("Book registered", "title", book.Title, "id", book.ID)
	return Result{Outcome: Registered}
}

func (s *Service) ingestAuthor(ctx context.Context, author *catalog.Author) Result {
	_, err := s.repo.FindAuthorByNameContaining(ctx, author.Name)
	switch {
	case err == nil:
		slog.Info("Author already registered", "name", author.Name)
		return Result{Outcome: AlreadyRegistered}
	case !errors.Is(err, catalog.ErrNotFound):
		slog.Error("Failed to look up author", "name", author.Name, "error", err)
		return Result{Outcome: Failed, Err: fmt.Errorf("look up author: %w", err)}
	}

	if err := s.repo.SaveAuthor(ctx, author); err != nil {
		slog.Error("Failed to save author", "name", author.Name, "error", err)
		return Result{Outcome: Failed, Err: &StoreWriteError{Entity: "author", Err: err}}
	}
	slog.Info("Author registered", "name", author.Name, "id", author.ID)
	return Result{Outcome: Registered}
}
