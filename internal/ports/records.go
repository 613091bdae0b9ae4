// Package ports defines interfaces for external dependencies.
// Ports are contracts that adapters implement, allowing the application layer
// to depend on abstractions rather than concrete implementations.
//
// Port Design Principles:
//   - Context as first parameter (always) for cancellation and deadlines
//   - Return domain types, never storage DTOs or infrastructure types
//   - Error returns use domain error types (ErrNotFound, ErrConflict, etc.)
package ports

import (
	"context"

	"github.com/jsamuelsen/quotes-api/internal/domain"
)

// RecordStore is the persistence contract for quotes.
// Implementations must be safe for concurrent use.
type RecordStore interface {
	// List returns every stored quote in insertion order.
	// An empty store yields an empty, non-nil slice.
	List(ctx context.Context) ([]*domain.Quote, error)

	// Get returns the quote with the given id.
	// Returns a domain.NotFoundError if no quote has that id.
	Get(ctx context.Context, id string) (*domain.Quote, error)

	// Create assigns an id to q, persists it and returns the stored copy.
	Create(ctx context.Context, q *domain.Quote) (*domain.Quote, error)

	// Update overwrites the stored quote that has q.ID.
	// Returns a domain.NotFoundError if no quote has that id.
	Update(ctx context.Context, q *domain.Quote) error

	// Delete removes the quote with the given id.
	// Returns a domain.NotFoundError if no quote has that id.
	Delete(ctx context.Context, id string) error

	// Random returns one quote chosen uniformly at random.
	// Returns a domain.NotFoundError if the store is empty.
	Random(ctx context.Context) (*domain.Quote, error)
}
