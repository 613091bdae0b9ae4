// Package domain contains core business entities and rules.
package domain

import "strings"

// QuoteEntity is the entity name used in domain errors for quotes.
const QuoteEntity = "quote"

// Quote represents a quotation with its author.
// This is a domain entity - it has no knowledge of external systems.
type Quote struct {
	// ID is the unique identifier for this quote, assigned by the records store.
	ID string

	// Quote is the text of the quote.
	Quote string

	// Author is who said or wrote the quote.
	Author string

	// Year is when the quote was said, if known.
	Year *int
}

// Validate checks the fields every stored quote must carry.
// Quote text and author are required; the year is optional.
func (q *Quote) Validate() error {
	if strings.TrimSpace(q.Quote) == "" || strings.TrimSpace(q.Author) == "" {
		return NewValidationError("", "Quote and author required")
	}

	return nil
}

// Overwrite replaces the editable fields of q with those of src.
// The ID is left untouched, so an update can never re-key a quote.
func (q *Quote) Overwrite(src *Quote) {
	q.Quote = src.Quote
	q.Author = src.Author
	q.Year = src.Year
}

// Clone returns a deep copy of q.
func (q *Quote) Clone() *Quote {
	c := *q
	if q.Year != nil {
		year := *q.Year
		c.Year = &year
	}

	return &c
}

// NewQuoteNotFoundError creates the not found error returned for a missing quote.
func NewQuoteNotFoundError(id string) error {
	return &NotFoundError{Entity: QuoteEntity, ID: id, Message: "Quote wasn't found"}
}
