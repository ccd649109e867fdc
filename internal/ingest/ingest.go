package ingest

import (
	"errors"
	"fmt"
)

var (
	// ErrBookNotFound is returned when a search yields no results.
	ErrBookNotFound = errors.New("book not found")
	// ErrMalformedPayload is returned when a catalog entry has no title.
	ErrMalformedPayload = errors.New("malformed payload")
)

// Outcome is the result of ingesting one entity.
type Outcome int

const (
	Registered Outcome = iota
	AlreadyRegistered
	Failed
	// Skipped is used for an author when the entry listed none.
	Skipped
)

func (o Outcome) String() string {
	switch o {
	case Registered:
		return "registered"
	case AlreadyRegistered:
		return "already registered"
	case Failed:
		return "failed"
	case Skipped:
		return "skipped"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Result describes what happened to one entity. Err is set only when
// Outcome is Failed.
type Result struct {
	Outcome Outcome
	Err     error
}

// Report is the per-entity result of one ingestion.
type Report struct {
	Title      string
	AuthorName string
	Book       Result
	Author     Result
}

// StoreWriteError wraps a failed store call for one entity.
type StoreWriteError struct {
	Entity string // book, author
	Err    error
}

func (e *StoreWriteError) Error() string {
	return fmt.Sprintf("save %s: %v", e.Entity, e.Err)
}

func (e *StoreWriteError) Unwrap() error {
	return e.Err
}
