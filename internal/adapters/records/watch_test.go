package records

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quotes-api/internal/domain"
)

func startWatch(t *testing.T, s *FileStore) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() { done <- s.Watch(ctx) }()

	t.Cleanup(func() {
		cancel()
		assert.NoError(t, <-done)
	})

	// Give the watcher time to register the directory.
	time.Sleep(100 * time.Millisecond)
}

func countQuotes(s *FileStore) int {
	quotes, err := s.List(context.Background())
	if err != nil {
		return -1
	}

	return len(quotes)
}

func reloadCount(s *FileStore, result string) float64 {
	return testutil.ToFloat64(s.metrics.reloads.WithLabelValues(result))
}

func TestWatch_ReloadsExternalEdits(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quotes.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"records":[{"id":"a","quote":"q","author":"x"}]}`), 0o600))

	s := openFileStore(t, Options{Path: path})
	startWatch(t, s)

	require.NoError(t, writeFileAtomic(path, []byte(
		`{"records":[{"id":"a","quote":"q","author":"x"},{"id":"b","quote":"r","author":"y"}]}`,
	)))

	require.Eventually(t, func() bool { return countQuotes(s) == 2 }, 2*time.Second, 20*time.Millisecond)

	got, err := s.Get(context.Background(), "b")
	require.NoError(t, err)
	assert.Equal(t, "r", got.Quote)
}

func TestWatch_KeepsSetOnBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quotes.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"records":[{"id":"a","quote":"q","author":"x"}]}`), 0o600))

	s := openFileStore(t, Options{Path: path})
	startWatch(t, s)

	require.NoError(t, os.WriteFile(path, []byte(`{"records": [`), 0o600))

	require.Eventually(t, func() bool { return reloadCount(s, resultError) > 0 }, 2*time.Second, 20*time.Millisecond)

	assert.Equal(t, 1, countQuotes(s))
}

func TestWatch_IgnoresOwnWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quotes.json")

	s := openFileStore(t, Options{Path: path})
	startWatch(t, s)

	_, err := s.Create(context.Background(), &domain.Quote{Quote: "q", Author: "a"})
	require.NoError(t, err)

	time.Sleep(200 * time.Millisecond)

	assert.Equal(t, 1, countQuotes(s))
	assert.Zero(t, reloadCount(s, resultOK))
}

func TestWatch_RequiresPath(t *testing.T) {
	s := newMemoryStore(t)

	err := s.Watch(context.Background())
	require.Error(t, err)
}
