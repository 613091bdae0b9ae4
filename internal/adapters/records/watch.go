package records

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/jsamuelsen/quotes-api/internal/domain"
)

// Watch reloads the store whenever its file is written, created or renamed
// into place by another process. It blocks until ctx is cancelled.
//
// The parent directory is watched rather than the file, so atomic saves that
// replace the inode are still seen. A reload that fails to read or decode is
// logged and the current set is kept.
func (s *FileStore) Watch(ctx context.Context) error {
	if s.path == "" {
		return errors.New("records: watch requires a file path")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating records watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating records directory: %w", err)
	}

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	target := filepath.Clean(s.path)

	s.logger.Info("records: watching for changes", slog.String("path", s.path))

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if filepath.Clean(event.Name) != target {
				continue
			}

			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}

			s.reload()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			s.logger.Error("records: watcher error", slog.Any("error", err))
		}
	}
}

// reload replaces the live set with the file's current content. Content this
// store wrote itself is skipped. The file is read under the write lock so a
// concurrent commit cannot be overwritten by an older snapshot.
func (s *FileStore) reload() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return
	}

	if err == nil && s.sameContent(data) {
		return
	}

	var quotes []*domain.Quote
	if err == nil {
		quotes, err = decodeFile(data)
	}

	if err != nil {
		s.metrics.reloads.WithLabelValues(resultError).Inc()
		s.logger.Error("records: reload failed, keeping previous set",
			slog.String("path", s.path), slog.Any("error", err))

		return
	}

	s.quotes = quotes
	s.lastWritten = data
	s.metrics.stored.Set(float64(len(quotes)))
	s.metrics.reloads.WithLabelValues(resultOK).Inc()

	s.logger.Info("records: reloaded", slog.String("path", s.path), slog.Int("quotes", len(quotes)))
}
