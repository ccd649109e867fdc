package catalog

import (
	"errors"
	"slices"
	"strings"
	"time"
)

var (
	// ErrNotFound is returned by containment lookups that match nothing.
	ErrNotFound = errors.New("catalog: record not found")
	// ErrNoAuthorsAlive is returned when no stored author was alive in the requested year.
	ErrNoAuthorsAlive = errors.New("authors alive not found")
	// ErrNoBooksInLanguage is returned when no stored book carries the requested language code.
	ErrNoBooksInLanguage = errors.New("books by language selected not found")
)

// Book is a stored catalog book. AuthorName keeps the primary author's
// name alongside the book; there is no link to the authors table.
type Book struct {
	ID            string
	Title         string
	Subjects      []string
	Bookshelves   []string
	Languages     []string
	DownloadCount int
	AuthorName    string
	CreatedAt     time.Time
}

// Author is a stored catalog author. A zero Author stands for an entry
// that listed no authors at all.
type Author struct {
	ID        string
	Name      string
	BirthYear *int
	DeathYear *int
	CreatedAt time.Time
}

// HasLanguage reports whether code is contained in any one of the book's
// language codes. Codes are matched one at a time, so a filter never spans
// two of them.
func (b Book) HasLanguage(code string) bool {
	return slices.ContainsFunc(b.Languages, func(c string) bool {
		return strings.Contains(c, code)
	})
}

// AliveIn reports whether the author was alive in year. Both years must be
// known; an author without a recorded death year never qualifies.
func (a Author) AliveIn(year int) bool {
	if a.BirthYear == nil || a.DeathYear == nil {
		return false
	}
	return *a.BirthYear <= year && *a.DeathYear >= year
}

// IsZero reports whether the author carries no name.
func (a Author) IsZero() bool {
	return a.Name == ""
}
