package records

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quotes-api/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// sequentialIDs returns q-1, q-2, ...
func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("q-%d", n)
	}
}

func newMemoryStore(t *testing.T) *FileStore {
	t.Helper()

	s, err := Open(Options{Logger: discardLogger(), NewID: sequentialIDs()})
	require.NoError(t, err)

	return s
}

func intPtr(v int) *int { return &v }

func TestFileStore_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	s := newMemoryStore(t)

	created, err := s.Create(ctx, &domain.Quote{ID: "ignored", Quote: "Stay hungry", Author: "Steve Jobs", Year: intPtr(2005)})
	require.NoError(t, err)
	assert.Equal(t, "q-1", created.ID)

	got, err := s.Get(ctx, "q-1")
	require.NoError(t, err)
	assert.Equal(t, "Stay hungry", got.Quote)
	assert.Equal(t, "Steve Jobs", got.Author)
	require.NotNil(t, got.Year)
	assert.Equal(t, 2005, *got.Year)
}

func TestFileStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := newMemoryStore(t)

	created, err := s.Create(ctx, &domain.Quote{Quote: "a", Author: "b", Year: intPtr(1)})
	require.NoError(t, err)

	created.Quote = "mutated"
	*created.Year = 99

	got, err := s.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "a", got.Quote)
	assert.Equal(t, 1, *got.Year)
}

func TestFileStore_Create_Invalid(t *testing.T) {
	s := newMemoryStore(t)

	_, err := s.Create(context.Background(), &domain.Quote{Quote: "no author"})
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
}

func TestFileStore_List(t *testing.T) {
	ctx := context.Background()
	s := newMemoryStore(t)

	quotes, err := s.List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, quotes)
	assert.Empty(t, quotes)

	for _, text := range []string{"first", "second", "third"} {
		_, err := s.Create(ctx, &domain.Quote{Quote: text, Author: "someone"})
		require.NoError(t, err)
	}

	quotes, err = s.List(ctx)
	require.NoError(t, err)
	require.Len(t, quotes, 3)
	assert.Equal(t, "first", quotes[0].Quote)
	assert.Equal(t, "third", quotes[2].Quote)
}

func TestFileStore_Get_NotFound(t *testing.T) {
	s := newMemoryStore(t)

	_, err := s.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, domain.IsNotFound(err))
	assert.Equal(t, "Quote wasn't found", err.Error())
}

func TestFileStore_Update(t *testing.T) {
	ctx := context.Background()
	s := newMemoryStore(t)

	created, err := s.Create(ctx, &domain.Quote{Quote: "old", Author: "a", Year: intPtr(1900)})
	require.NoError(t, err)

	err = s.Update(ctx, &domain.Quote{ID: created.ID, Quote: "new", Author: "b"})
	require.NoError(t, err)

	got, err := s.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "new", got.Quote)
	assert.Equal(t, "b", got.Author)
	assert.Nil(t, got.Year)
}

func TestFileStore_Update_Errors(t *testing.T) {
	ctx := context.Background()
	s := newMemoryStore(t)

	err := s.Update(ctx, &domain.Quote{ID: "missing", Quote: "q", Author: "a"})
	assert.True(t, domain.IsNotFound(err))

	created, err := s.Create(ctx, &domain.Quote{Quote: "q", Author: "a"})
	require.NoError(t, err)

	err = s.Update(ctx, &domain.Quote{ID: created.ID, Quote: "q"})
	assert.True(t, domain.IsValidation(err))

	got, err := s.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "a", got.Author)
}

func TestFileStore_Delete(t *testing.T) {
	ctx := context.Background()
	s := newMemoryStore(t)

	created, err := s.Create(ctx, &domain.Quote{Quote: "q", Author: "a"})
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, created.ID))

	_, err = s.Get(ctx, created.ID)
	assert.True(t, domain.IsNotFound(err))

	err = s.Delete(ctx, created.ID)
	assert.True(t, domain.IsNotFound(err))
}

func TestFileStore_Random(t *testing.T) {
	ctx := context.Background()

	var bound int

	s, err := Open(Options{
		Logger: discardLogger(),
		NewID:  sequentialIDs(),
		IntN: func(n int) int {
			bound = n
			return n - 1
		},
	})
	require.NoError(t, err)

	_, err = s.Random(ctx)
	require.Error(t, err)
	assert.True(t, domain.IsNotFound(err))

	for _, text := range []string{"one", "two"} {
		_, err := s.Create(ctx, &domain.Quote{Quote: text, Author: "a"})
		require.NoError(t, err)
	}

	got, err := s.Random(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, bound)
	assert.Equal(t, "two", got.Quote)
}

func TestFileStore_Close(t *testing.T) {
	ctx := context.Background()
	s := newMemoryStore(t)

	require.NoError(t, s.Close())

	_, err := s.List(ctx)
	require.Error(t, err)
	assert.True(t, domain.IsUnavailable(err))

	_, err = s.Create(ctx, &domain.Quote{Quote: "q", Author: "a"})
	assert.True(t, domain.IsUnavailable(err))

	assert.True(t, domain.IsUnavailable(s.Check(ctx)))
}

func TestFileStore_CanceledContext(t *testing.T) {
	s := newMemoryStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.List(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFileStore_Metrics(t *testing.T) {
	ctx := context.Background()
	reg := prometheus.NewRegistry()

	s, err := Open(Options{Logger: discardLogger(), Registerer: reg, NewID: sequentialIDs()})
	require.NoError(t, err)

	_, err = s.Create(ctx, &domain.Quote{Quote: "q", Author: "a"})
	require.NoError(t, err)
	_, err = s.Get(ctx, "q-1")
	require.NoError(t, err)
	_, err = s.Get(ctx, "missing")
	require.Error(t, err)

	assert.InDelta(t, 1, testutil.ToFloat64(s.metrics.operations.WithLabelValues(opCreate, resultOK)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(s.metrics.operations.WithLabelValues(opGet, resultOK)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(s.metrics.operations.WithLabelValues(opGet, resultNotFound)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(s.metrics.stored), 0)

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}

	assert.Contains(t, names, "quotes_records_operations_total")
	assert.Contains(t, names, "quotes_records_stored")
}

func TestFileStore_MetricsReuseRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()

	first, err := Open(Options{Logger: discardLogger(), Registerer: reg})
	require.NoError(t, err)

	second, err := Open(Options{Logger: discardLogger(), Registerer: reg})
	require.NoError(t, err)

	assert.Same(t, first.metrics.operations, second.metrics.operations)
}

func TestResultOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, resultOK},
		{"not found", domain.NewQuoteNotFoundError("x"), resultNotFound},
		{"validation", domain.NewValidationError("", "bad"), resultInvalid},
		{"canceled", context.Canceled, resultCanceled},
		{"deadline", fmt.Errorf("wrapped: %w", context.DeadlineExceeded), resultCanceled},
		{"other", assert.AnError, resultError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, resultOf(tt.err))
		})
	}
}
