// Package records implements ports.RecordStore as an in-memory quote set,
// optionally persisted to a flat JSON file.
//
// With a path configured, every mutation rewrites the whole file atomically
// (temp file + rename). On open the file is loaded, or, if it does not exist
// yet, imported from a YAML seed. Watch reloads the set when the file is
// edited outside the service.
package records

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jsamuelsen/quotes-api/internal/domain"
	"github.com/jsamuelsen/quotes-api/internal/platform/logging"
)

// serviceName identifies the store in health checks and unavailable errors.
const serviceName = "records"

// Options configures a FileStore.
type Options struct {
	// Path is the JSON file backing the store. Empty keeps quotes in memory.
	Path string

	// SeedPath is a YAML file imported when Path does not exist yet.
	SeedPath string

	// Logger defaults to slog.Default().
	Logger *slog.Logger

	// Registerer receives the store metrics. Nil leaves them unregistered.
	Registerer prometheus.Registerer

	// NewID generates quote ids. Defaults to random UUIDs.
	NewID func() string

	// IntN picks the index returned by Random. Defaults to math/rand/v2.
	IntN func(n int) int
}

// FileStore is a concurrency-safe quote store.
type FileStore struct {
	mu          sync.RWMutex
	quotes      []*domain.Quote
	lastWritten []byte
	closed      bool

	path     string
	seedPath string
	logger   *slog.Logger
	metrics  *metrics
	newID    func() string
	intN     func(n int) int
}

// Open creates a store, loading or seeding its file when a path is set.
func Open(opts Options) (*FileStore, error) {
	s := &FileStore{
		quotes:   []*domain.Quote{},
		path:     opts.Path,
		seedPath: opts.SeedPath,
		logger:   opts.Logger,
		newID:    opts.NewID,
		intN:     opts.IntN,
	}

	if s.logger == nil {
		s.logger = slog.Default()
	}

	if s.newID == nil {
		s.newID = uuid.NewString
	}

	if s.intN == nil {
		s.intN = rand.IntN
	}

	m, err := newMetrics(opts.Registerer)
	if err != nil {
		return nil, fmt.Errorf("registering records metrics: %w", err)
	}

	s.metrics = m

	if s.path != "" {
		if err := s.load(); err != nil {
			return nil, err
		}
	}

	s.metrics.stored.Set(float64(len(s.quotes)))

	s.logger.Info("records store opened",
		slog.String("path", s.path),
		slog.Int("quotes", len(s.quotes)),
	)

	return s, nil
}

// List returns copies of all quotes in insertion order.
func (s *FileStore) List(ctx context.Context) (quotes []*domain.Quote, err error) {
	defer func() { s.metrics.observe(opList, err) }()

	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.usable(ctx); err != nil {
		return nil, err
	}

	quotes = make([]*domain.Quote, len(s.quotes))
	for i, q := range s.quotes {
		quotes[i] = q.Clone()
	}

	return quotes, nil
}

// Get returns a copy of the quote with id.
func (s *FileStore) Get(ctx context.Context, id string) (quote *domain.Quote, err error) {
	defer func() { s.metrics.observe(opGet, err) }()

	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.usable(ctx); err != nil {
		return nil, err
	}

	i := s.indexOf(id)
	if i < 0 {
		return nil, domain.NewQuoteNotFoundError(id)
	}

	return s.quotes[i].Clone(), nil
}

// Create stores a copy of q under a newly generated id.
// Any id already set on q is ignored.
func (s *FileStore) Create(ctx context.Context, q *domain.Quote) (created *domain.Quote, err error) {
	defer func() { s.metrics.observe(opCreate, err) }()

	if err := q.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.usable(ctx); err != nil {
		return nil, err
	}

	stored := q.Clone()
	stored.ID = s.newID()

	if s.indexOf(stored.ID) >= 0 {
		return nil, domain.NewConflictError(domain.QuoteEntity, fmt.Sprintf("id %q already exists", stored.ID))
	}

	next := append(slices.Clip(s.quotes), stored)
	if err := s.commit(next); err != nil {
		return nil, err
	}

	s.logger.Log(ctx, logging.LevelTrace, "quote created", slog.String("quote_id", stored.ID))

	return stored.Clone(), nil
}

// Update overwrites quote, author and year of the stored quote with q.ID.
func (s *FileStore) Update(ctx context.Context, q *domain.Quote) (err error) {
	defer func() { s.metrics.observe(opUpdate, err) }()

	if err := q.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.usable(ctx); err != nil {
		return err
	}

	i := s.indexOf(q.ID)
	if i < 0 {
		return domain.NewQuoteNotFoundError(q.ID)
	}

	updated := s.quotes[i].Clone()
	updated.Overwrite(q.Clone())

	next := slices.Clone(s.quotes)
	next[i] = updated

	if err := s.commit(next); err != nil {
		return err
	}

	s.logger.Log(ctx, logging.LevelTrace, "quote updated", slog.String("quote_id", q.ID))

	return nil
}

// Delete removes the quote with id.
func (s *FileStore) Delete(ctx context.Context, id string) (err error) {
	defer func() { s.metrics.observe(opDelete, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.usable(ctx); err != nil {
		return err
	}

	i := s.indexOf(id)
	if i < 0 {
		return domain.NewQuoteNotFoundError(id)
	}

	next := slices.Delete(slices.Clone(s.quotes), i, i+1)
	if err := s.commit(next); err != nil {
		return err
	}

	s.logger.Log(ctx, logging.LevelTrace, "quote deleted", slog.String("quote_id", id))

	return nil
}

// Random returns a copy of one quote chosen uniformly at random.
func (s *FileStore) Random(ctx context.Context) (quote *domain.Quote, err error) {
	defer func() { s.metrics.observe(opRandom, err) }()

	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.usable(ctx); err != nil {
		return nil, err
	}

	if len(s.quotes) == 0 {
		return nil, &domain.NotFoundError{Entity: domain.QuoteEntity, Message: "Quote wasn't found"}
	}

	return s.quotes[s.intN(len(s.quotes))].Clone(), nil
}

// Close makes every later operation fail with a domain.UnavailableError.
func (s *FileStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true

	return nil
}

// usable must be called with s.mu held.
func (s *FileStore) usable(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if s.closed {
		return &domain.UnavailableError{Service: serviceName, Reason: "store closed"}
	}

	return nil
}

// indexOf must be called with s.mu held.
func (s *FileStore) indexOf(id string) int {
	return slices.IndexFunc(s.quotes, func(q *domain.Quote) bool {
		return q.ID == id
	})
}

// commit persists next and then makes it the live set, so a failed write
// leaves the previous set in place. Must be called with s.mu write-locked.
func (s *FileStore) commit(next []*domain.Quote) error {
	if s.path != "" {
		data, err := encodeFile(next)
		if err != nil {
			return err
		}

		if err := writeFileAtomic(s.path, data); err != nil {
			return fmt.Errorf("persisting records: %w", err)
		}

		s.lastWritten = data
	}

	s.quotes = next
	s.metrics.stored.Set(float64(len(next)))

	return nil
}

// resultOf classifies err for the operations counter.
func resultOf(err error) string {
	switch {
	case err == nil:
		return resultOK
	case domain.IsNotFound(err):
		return resultNotFound
	case domain.IsValidation(err):
		return resultInvalid
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return resultCanceled
	default:
		return resultError
	}
}
