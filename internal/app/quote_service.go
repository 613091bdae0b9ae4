// Package app contains application services that orchestrate use cases.
// Services depend on ports, never on concrete adapters, and return domain
// errors that the transport layer maps to responses.
package app

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/quotes-api/internal/domain"
	"github.com/jsamuelsen/quotes-api/internal/platform/telemetry"
	"github.com/jsamuelsen/quotes-api/internal/ports"
)

// QuoteService implements the quote use cases on top of a records store.
type QuoteService struct {
	store  ports.RecordStore
	logger *slog.Logger
}

// QuoteServiceConfig contains the dependencies of the quote service.
type QuoteServiceConfig struct {
	Store  ports.RecordStore
	Logger *slog.Logger
}

// NewQuoteService creates a quote service. It panics if no store is given.
func NewQuoteService(cfg QuoteServiceConfig) *QuoteService {
	if cfg.Store == nil {
		panic("app: NewQuoteService requires a records store")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &QuoteService{
		store:  cfg.Store,
		logger: logger.With(slog.String("component", "app.QuoteService")),
	}
}

// ListQuotes returns every stored quote.
func (s *QuoteService) ListQuotes(ctx context.Context) (quotes []*domain.Quote, err error) {
	ctx, span := telemetry.StartSpan(ctx, "QuoteService.ListQuotes")
	defer func() { endSpan(span, err) }()

	quotes, err = s.store.List(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list quotes", slog.Any("error", err))
		return nil, err
	}

	s.logger.DebugContext(ctx, "listed quotes", slog.Int("count", len(quotes)))

	return quotes, nil
}

// GetQuote returns the quote with id.
func (s *QuoteService) GetQuote(ctx context.Context, id string) (quote *domain.Quote, err error) {
	ctx, span := telemetry.StartSpan(ctx, "QuoteService.GetQuote", attribute.String("quote.id", id))
	defer func() { endSpan(span, err) }()

	quote, err = s.store.Get(ctx, id)
	if err != nil {
		s.logFailure(ctx, "failed to get quote", id, err)
		return nil, err
	}

	return quote, nil
}

// CreateQuote validates q and stores it under a new id.
func (s *QuoteService) CreateQuote(ctx context.Context, q *domain.Quote) (created *domain.Quote, err error) {
	ctx, span := telemetry.StartSpan(ctx, "QuoteService.CreateQuote")
	defer func() { endSpan(span, err) }()

	if err := q.Validate(); err != nil {
		return nil, err
	}

	created, err = s.store.Create(ctx, q)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to create quote", slog.Any("error", err))
		return nil, err
	}

	s.logger.InfoContext(ctx, "quote created",
		slog.String("quote_id", created.ID),
		slog.String("author", created.Author),
	)

	return created, nil
}

// UpdateQuote overwrites quote, author and year of the quote with id.
// A missing quote is reported before the new content is validated.
func (s *QuoteService) UpdateQuote(ctx context.Context, id string, q *domain.Quote) (err error) {
	ctx, span := telemetry.StartSpan(ctx, "QuoteService.UpdateQuote", attribute.String("quote.id", id))
	defer func() { endSpan(span, err) }()

	existing, err := s.store.Get(ctx, id)
	if err != nil {
		s.logFailure(ctx, "failed to find quote for update", id, err)
		return err
	}

	existing.Overwrite(q)

	if err := existing.Validate(); err != nil {
		return err
	}

	if err := s.store.Update(ctx, existing); err != nil {
		s.logFailure(ctx, "failed to update quote", id, err)
		return err
	}

	s.logger.InfoContext(ctx, "quote updated", slog.String("quote_id", id))

	return nil
}

// DeleteQuote removes the quote with id.
func (s *QuoteService) DeleteQuote(ctx context.Context, id string) (err error) {
	ctx, span := telemetry.StartSpan(ctx, "QuoteService.DeleteQuote", attribute.String("quote.id", id))
	defer func() { endSpan(span, err) }()

	if err := s.store.Delete(ctx, id); err != nil {
		s.logFailure(ctx, "failed to delete quote", id, err)
		return err
	}

	s.logger.InfoContext(ctx, "quote deleted", slog.String("quote_id", id))

	return nil
}

// RandomQuote returns one stored quote chosen at random.
func (s *QuoteService) RandomQuote(ctx context.Context) (quote *domain.Quote, err error) {
	ctx, span := telemetry.StartSpan(ctx, "QuoteService.RandomQuote")
	defer func() { endSpan(span, err) }()

	quote, err = s.store.Random(ctx)
	if err != nil {
		s.logFailure(ctx, "failed to pick random quote", "", err)
		return nil, err
	}

	return quote, nil
}

// endSpan ends span, marking it failed unless err is nil or a plain miss.
func endSpan(span trace.Span, err error) {
	if !domain.IsNotFound(err) {
		telemetry.RecordError(span, err)
	}

	span.End()
}

// logFailure logs err at error level, or at debug level for a plain miss.
func (s *QuoteService) logFailure(ctx context.Context, msg, id string, err error) {
	level := slog.LevelError
	if domain.IsNotFound(err) {
		level = slog.LevelDebug
	}

	attrs := []slog.Attr{slog.Any("error", err)}
	if id != "" {
		attrs = append(attrs, slog.String("quote_id", id))
	}

	s.logger.LogAttrs(ctx, level, msg, attrs...)
}
