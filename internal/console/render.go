package console

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"literature/internal/catalog"
	"literature/internal/ingest"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

var (
	successColor = color.New(color.FgGreen)
	infoColor    = color.New(color.FgYellow)
	errorColor   = color.New(color.FgRed)
	titleColor   = color.New(color.Bold)
)

func newTable(out io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)
	t.Style().Format.Header = text.FormatDefault
	return t
}

// RenderBooks writes books as a table in the order given.
func RenderBooks(out io.Writer, books []catalog.Book) {
	t := newTable(out)
	t.AppendHeader(table.Row{"Title", "Author", "Languages", "Downloads"})
	for _, b := range books {
		t.AppendRow(table.Row{b.Title, orDash(b.AuthorName), orDash(strings.Join(b.Languages, ", ")), b.DownloadCount})
	}
	t.Render()
}

// RenderAuthors writes authors as a table in the order given.
func RenderAuthors(out io.Writer, authors []catalog.Author) {
	t := newTable(out)
	t.AppendHeader(table.Row{"Name", "Birth year", "Death year"})
	for _, a := range authors {
		t.AppendRow(table.Row{a.Name, yearOrDash(a.BirthYear), yearOrDash(a.DeathYear)})
	}
	t.Render()
}

// RenderReport writes one status line per ingested entity.
func RenderReport(out io.Writer, r ingest.Report) {
	titleColor.Fprintf(out, "%s\n", r.Title)
	renderResult(out, "book", r.Book)
	renderResult(out, "author", r.Author)
}

// RenderStats writes the stored record counts.
func RenderStats(out io.Writer, s catalog.Stats) {
	fmt.Fprintf(out, "Registered books: %d\nRegistered authors: %d\n", s.Books, s.Authors)
}

func renderResult(out io.Writer, entity string, r ingest.Result) {
	switch r.Outcome {
	case ingest.Registered:
		successColor.Fprintf(out, "%s registered\n", entity)
	case ingest.AlreadyRegistered:
		infoColor.Fprintf(out, "this %s was already registered\n", entity)
	case ingest.Skipped:
		infoColor.Fprintf(out, "no %s listed for this book\n", entity)
	case ingest.Failed:
		errorColor.Fprintf(out, "Error message: %v\n", r.Err)
	}
}

func Info(out io.Writer, msg string) {
	infoColor.Fprintln(out, msg)
}

func Error(out io.Writer, err error) {
	errorColor.Fprintf(out, "Error message: %v\n", err)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func yearOrDash(y *int) string {
	if y == nil {
		return "-"
	}
	return strconv.Itoa(*y)
}
