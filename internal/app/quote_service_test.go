package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/jsamuelsen/quotes-api/internal/domain"
	"github.com/jsamuelsen/quotes-api/internal/mocks"
)

// discardLogger returns a logger that discards all output.
func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newService(t *testing.T) (*QuoteService, *mocks.MockRecordStore) {
	t.Helper()

	store := mocks.NewMockRecordStore(t)
	svc := NewQuoteService(QuoteServiceConfig{
		Store:  store,
		Logger: discardLogger(),
	})

	return svc, store
}

func intPtr(v int) *int { return &v }

// useRecorder installs a global tracer provider that records ended spans.
func useRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)

	t.Cleanup(func() {
		otel.SetTracerProvider(previous)
		_ = tp.Shutdown(context.Background())
	})

	return recorder
}

func TestQuoteService_SpanStatus(t *testing.T) {
	tests := []struct {
		name       string
		storeErr   error
		wantStatus codes.Code
		wantEvents int
	}{
		{
			name:       "found",
			wantStatus: codes.Unset,
		},
		{
			name:       "not found is not a failure",
			storeErr:   domain.NewQuoteNotFoundError("q-1"),
			wantStatus: codes.Unset,
		},
		{
			name:       "store unavailable",
			storeErr:   domain.NewUnavailableError("records", "store closed"),
			wantStatus: codes.Error,
			wantEvents: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := useRecorder(t)
			svc, store := newService(t)

			var found *domain.Quote
			if tt.storeErr == nil {
				found = &domain.Quote{ID: "q-1", Quote: "Q", Author: "A"}
			}

			store.EXPECT().Get(mock.Anything, "q-1").Return(found, tt.storeErr)

			_, err := svc.GetQuote(context.Background(), "q-1")
			assert.ErrorIs(t, err, tt.storeErr)

			spans := recorder.Ended()
			require.Len(t, spans, 1)
			assert.Equal(t, "QuoteService.GetQuote", spans[0].Name())
			assert.Equal(t, tt.wantStatus, spans[0].Status().Code)
			assert.Len(t, spans[0].Events(), tt.wantEvents)
		})
	}
}

func TestNewQuoteService_PanicsWithoutStore(t *testing.T) {
	assert.Panics(t, func() {
		NewQuoteService(QuoteServiceConfig{Logger: slog.Default()})
	})
}

func TestNewQuoteService_DefaultsLogger(t *testing.T) {
	svc := NewQuoteService(QuoteServiceConfig{Store: mocks.NewMockRecordStore(t)})

	require.NotNil(t, svc)
	assert.NotNil(t, svc.logger)
}

func TestQuoteService_ListQuotes(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(*mocks.MockRecordStore)
		expected  []*domain.Quote
		wantErr   bool
	}{
		{
			name: "success",
			setupMock: func(m *mocks.MockRecordStore) {
				m.EXPECT().List(mock.Anything).Return([]*domain.Quote{
					{ID: "q-1", Quote: "first", Author: "a"},
					{ID: "q-2", Quote: "second", Author: "b"},
				}, nil)
			},
			expected: []*domain.Quote{
				{ID: "q-1", Quote: "first", Author: "a"},
				{ID: "q-2", Quote: "second", Author: "b"},
			},
		},
		{
			name: "empty store",
			setupMock: func(m *mocks.MockRecordStore) {
				m.EXPECT().List(mock.Anything).Return([]*domain.Quote{}, nil)
			},
			expected: []*domain.Quote{},
		},
		{
			name: "store error",
			setupMock: func(m *mocks.MockRecordStore) {
				m.EXPECT().List(mock.Anything).Return(nil, errors.New("disk full"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store := newService(t)
			tt.setupMock(store)

			quotes, err := svc.ListQuotes(context.Background())

			if tt.wantErr {
				require.Error(t, err)
				assert.Nil(t, quotes)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, quotes)
		})
	}
}

func TestQuoteService_GetQuote(t *testing.T) {
	tests := []struct {
		name      string
		quoteID   string
		setupMock func(*mocks.MockRecordStore)
		expected  *domain.Quote
		errCheck  func(error) bool
	}{
		{
			name:    "success",
			quoteID: "q-123",
			setupMock: func(m *mocks.MockRecordStore) {
				m.EXPECT().Get(mock.Anything, "q-123").
					Return(&domain.Quote{ID: "q-123", Quote: "Specific quote", Author: "Author"}, nil)
			},
			expected: &domain.Quote{ID: "q-123", Quote: "Specific quote", Author: "Author"},
		},
		{
			name:    "not found",
			quoteID: "nonexistent",
			setupMock: func(m *mocks.MockRecordStore) {
				m.EXPECT().Get(mock.Anything, "nonexistent").
					Return(nil, domain.NewQuoteNotFoundError("nonexistent"))
			},
			errCheck: domain.IsNotFound,
		},
		{
			name:    "store unavailable",
			quoteID: "q-456",
			setupMock: func(m *mocks.MockRecordStore) {
				m.EXPECT().Get(mock.Anything, "q-456").
					Return(nil, domain.NewUnavailableError("records", "store closed"))
			},
			errCheck: domain.IsUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store := newService(t)
			tt.setupMock(store)

			quote, err := svc.GetQuote(context.Background(), tt.quoteID)

			if tt.errCheck != nil {
				require.Error(t, err)
				assert.True(t, tt.errCheck(err))
				assert.Nil(t, quote)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, quote)
		})
	}
}

func TestQuoteService_CreateQuote(t *testing.T) {
	t.Run("stores valid quote", func(t *testing.T) {
		svc, store := newService(t)
		input := &domain.Quote{Quote: "Less is more", Author: "Mies van der Rohe", Year: intPtr(1947)}

		store.EXPECT().Create(mock.Anything, input).
			Return(&domain.Quote{ID: "q-1", Quote: "Less is more", Author: "Mies van der Rohe", Year: intPtr(1947)}, nil)

		created, err := svc.CreateQuote(context.Background(), input)
		require.NoError(t, err)
		assert.Equal(t, "q-1", created.ID)
		assert.Equal(t, 1947, *created.Year)
	})

	t.Run("rejects missing author without touching the store", func(t *testing.T) {
		svc, _ := newService(t)

		_, err := svc.CreateQuote(context.Background(), &domain.Quote{Quote: "orphan"})
		require.Error(t, err)
		assert.True(t, domain.IsValidation(err))
		assert.Equal(t, "Quote and author required", err.Error())
	})

	t.Run("propagates store error", func(t *testing.T) {
		svc, store := newService(t)

		store.EXPECT().Create(mock.Anything, mock.Anything).Return(nil, errors.New("write failed"))

		_, err := svc.CreateQuote(context.Background(), &domain.Quote{Quote: "q", Author: "a"})
		require.EqualError(t, err, "write failed")
	})
}

func TestQuoteService_UpdateQuote(t *testing.T) {
	t.Run("overwrites fields and keeps id", func(t *testing.T) {
		svc, store := newService(t)

		store.EXPECT().Get(mock.Anything, "q-1").
			Return(&domain.Quote{ID: "q-1", Quote: "old", Author: "old author", Year: intPtr(1900)}, nil)
		store.EXPECT().Update(mock.Anything, mock.MatchedBy(func(q *domain.Quote) bool {
			return q.ID == "q-1" && q.Quote == "new" && q.Author == "new author" && q.Year == nil
		})).Return(nil)

		err := svc.UpdateQuote(context.Background(), "q-1", &domain.Quote{ID: "other", Quote: "new", Author: "new author"})
		require.NoError(t, err)
	})

	t.Run("missing quote is not found", func(t *testing.T) {
		svc, store := newService(t)

		store.EXPECT().Get(mock.Anything, "missing").Return(nil, domain.NewQuoteNotFoundError("missing"))

		err := svc.UpdateQuote(context.Background(), "missing", &domain.Quote{})
		assert.True(t, domain.IsNotFound(err))
	})

	t.Run("invalid content is rejected after lookup", func(t *testing.T) {
		svc, store := newService(t)

		store.EXPECT().Get(mock.Anything, "q-1").Return(&domain.Quote{ID: "q-1", Quote: "q", Author: "a"}, nil)

		err := svc.UpdateQuote(context.Background(), "q-1", &domain.Quote{Quote: "only text"})
		assert.True(t, domain.IsValidation(err))
	})
}

func TestQuoteService_DeleteQuote(t *testing.T) {
	tests := []struct {
		name     string
		storeErr error
		errCheck func(error) bool
	}{
		{name: "success"},
		{name: "not found", storeErr: domain.NewQuoteNotFoundError("q-1"), errCheck: domain.IsNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store := newService(t)
			store.EXPECT().Delete(mock.Anything, "q-1").Return(tt.storeErr)

			err := svc.DeleteQuote(context.Background(), "q-1")

			if tt.errCheck != nil {
				assert.True(t, tt.errCheck(err))
				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestQuoteService_RandomQuote(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc, store := newService(t)
		store.EXPECT().Random(mock.Anything).Return(&domain.Quote{ID: "q-9", Quote: "q", Author: "a"}, nil)

		quote, err := svc.RandomQuote(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "q-9", quote.ID)
	})

	t.Run("empty store", func(t *testing.T) {
		svc, store := newService(t)
		store.EXPECT().Random(mock.Anything).Return(nil, &domain.NotFoundError{Entity: domain.QuoteEntity})

		_, err := svc.RandomQuote(context.Background())
		assert.True(t, domain.IsNotFound(err))
	})
}
