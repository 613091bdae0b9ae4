package records

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jsamuelsen/quotes-api/internal/ports"
)

var _ ports.HealthChecker = (*FileStore)(nil)

// Name implements ports.HealthChecker.
func (s *FileStore) Name() string {
	return serviceName
}

// Check implements ports.HealthChecker. The store is healthy while open and,
// when file-backed, while its directory accepts new files.
func (s *FileStore) Check(ctx context.Context) error {
	s.mu.RLock()
	err := s.usable(ctx)
	s.mu.RUnlock()

	if err != nil {
		return err
	}

	if s.path == "" {
		return nil
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".healthcheck-*")
	if err != nil {
		return fmt.Errorf("records directory not writable: %w", err)
	}

	_ = tmp.Close()

	return os.Remove(tmp.Name())
}
