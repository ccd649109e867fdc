package ingest

import (
	"fmt"
	"strings"

	"literature/internal/catalog"
	"literature/internal/platform/gutendex"
)

// SelectBestMatch picks the first search result. Ranking is left to the
// source; the boolean is false when there are no results.
func SelectBestMatch(results []gutendex.Book) (gutendex.Book, bool) {
	if len(results) == 0 {
		return gutendex.Book{}, false
	}
	return results[0], true
}

// Normalize maps one catalog entry to a Book and its primary Author. Only
// the first listed author is kept; an entry without authors yields a zero
// Author and no error.
func Normalize(entry gutendex.Book) (catalog.Book, catalog.Author, error) {
	if entry.Title == nil {
		return catalog.Book{}, catalog.Author{}, fmt.Errorf("%w: entry %d has no title", ErrMalformedPayload, entry.ID)
	}
	title := strings.TrimSpace(*entry.Title)
	if title == "" {
		return catalog.Book{}, catalog.Author{}, fmt.Errorf("%w: entry %d has an empty title", ErrMalformedPayload, entry.ID)
	}

	var author catalog.Author
	if len(entry.Authors) > 0 {
		first := entry.Authors[0]
		author = catalog.Author{
			Name:      strings.TrimSpace(first.Name),
			BirthYear: copyInt(first.BirthYear),
			DeathYear: copyInt(first.DeathYear),
		}
	}

	book := catalog.Book{
		Title:         title,
		Subjects:      copyStrings(entry.Subjects),
		Bookshelves:   copyStrings(entry.Bookshelves),
		Languages:     copyStrings(entry.Languages),
		DownloadCount: entry.DownloadCount,
		AuthorName:    author.Name,
	}
	return book, author, nil
}

func copyInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func copyStrings(s []string) []string {
	out := make([]string, 0, len(s))
	return append(out, s...)
}
