// Package console runs the interactive menu. Each menu choice becomes one
// request against the ingest or catalog service; input is read from the
// reader given to New, never from shared state.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"literature/internal/catalog"
	"literature/internal/ingest"
)

type Ingester interface {
	SearchAndRegister(ctx context.Context, title string) (ingest.Report, error)
}

type Catalog interface {
	ListBooks(ctx context.Context) ([]catalog.Book, error)
	ListAuthors(ctx context.Context) ([]catalog.Author, error)
	AuthorsAliveIn(ctx context.Context, year int) ([]catalog.Author, error)
	BooksByLanguage(ctx context.Context, code string) ([]catalog.Book, error)
}

const menu = `
	**** Please, select an option ****
	1 - Search book by title
	2 - List registered books
	3 - List registered authors
	4 - List authors alive in a given year
	5 - List books by language

	0 - Exit
`

const languageMenu = `
	---- Please, select a language ----
	en - English
	es - Spanish
	fr - French
	pt - Portuguese
`

type Console struct {
	in      *bufio.Scanner
	out     io.Writer
	ingest  Ingester
	catalog Catalog
}

func New(in io.Reader, out io.Writer, ingester Ingester, cat Catalog) *Console {
	return &Console{
		in:      bufio.NewScanner(in),
		out:     out,
		ingest:  ingester,
		catalog: cat,
	}
}

// Run shows the menu until the user picks 0, input ends or ctx is done.
// Errors from a single option are printed and the menu is shown again.
func (c *Console) Run(ctx context.Context) error {
	fmt.Fprintln(c.out, "****************************************")
	defer fmt.Fprintln(c.out, "****************************************")

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(c.out, menu)
		line, ok := c.prompt("Option: ")
		if !ok {
			return c.in.Err()
		}

		switch strings.TrimSpace(line) {
		case "1":
			c.searchBookByTitle(ctx)
		case "2":
			c.listBooks(ctx)
		case "3":
			c.listAuthors(ctx)
		case "4":
			c.listAuthorsAlive(ctx)
		case "5":
			c.listBooksByLanguage(ctx)
		case "0":
			fmt.Fprintln(c.out, "ending application...")
			return nil
		default:
			Info(c.out, "Invalid option, please, try again")
		}
	}
}

func (c *Console) prompt(label string) (string, bool) {
	fmt.Fprint(c.out, label)
	if !c.in.Scan() {
		return "", false
	}
	return c.in.Text(), true
}

func (c *Console) searchBookByTitle(ctx context.Context) {
	title, ok := c.prompt("Search book by title...Please, enter title: ")
	if !ok {
		return
	}
	title = strings.TrimSpace(title)
	if title == "" {
		Info(c.out, "Title must not be empty")
		return
	}

	report, err := c.ingest.SearchAndRegister(ctx, title)
	switch {
	case errors.Is(err, ingest.ErrBookNotFound):
		Info(c.out, "Book not found")
	case err != nil:
		Error(c.out, err)
	default:
		RenderReport(c.out, report)
	}
}

func (c *Console) listBooks(ctx context.Context) {
	fmt.Fprintln(c.out, "List registered books\n---------------------")
	books, err := c.catalog.ListBooks(ctx)
	if err != nil {
		Error(c.out, err)
		return
	}
	RenderBooks(c.out, books)
}

func (c *Console) listAuthors(ctx context.Context) {
	fmt.Fprintln(c.out, "List registered authors\n-----------------------")
	authors, err := c.catalog.ListAuthors(ctx)
	if err != nil {
		Error(c.out, err)
		return
	}
	RenderAuthors(c.out, authors)
}

func (c *Console) listAuthorsAlive(ctx context.Context) {
	var year int
	for {
		line, ok := c.prompt("List authors alive in a given year...Please, enter year: ")
		if !ok {
			return
		}
		y, err := strconv.Atoi(strings.TrimSpace(line))
		if err == nil {
			year = y
			break
		}
		Info(c.out, "Year must be a whole number, please, try again")
	}

	authors, err := c.catalog.AuthorsAliveIn(ctx, year)
	switch {
	case errors.Is(err, catalog.ErrNoAuthorsAlive):
		Info(c.out, "Authors alive not found")
	case err != nil:
		Error(c.out, err)
	default:
		RenderAuthors(c.out, authors)
	}
}

func (c *Console) listBooksByLanguage(ctx context.Context) {
	fmt.Fprintln(c.out, "List books by language\n----------------------")
	fmt.Fprint(c.out, languageMenu)
	code, ok := c.prompt("Language: ")
	if !ok {
		return
	}

	books, err := c.catalog.BooksByLanguage(ctx, strings.TrimSpace(code))
	switch {
	case errors.Is(err, catalog.ErrNoBooksInLanguage):
		Info(c.out, "Books by language selected not found")
	case err != nil:
		Error(c.out, err)
	default:
		RenderBooks(c.out, books)
	}
}
