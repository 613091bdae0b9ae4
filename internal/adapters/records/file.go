package records

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/jsamuelsen/quotes-api/internal/domain"
)

// record is the on-disk form of a quote, shared by the JSON file and the YAML seed.
type record struct {
	ID     string `json:"id"             yaml:"id,omitempty"`
	Quote  string `json:"quote"          yaml:"quote"`
	Author string `json:"author"         yaml:"author"`
	Year   *int   `json:"year,omitempty" yaml:"year,omitempty"`
}

type document struct {
	Records []record `json:"records" yaml:"records"`
}

func toRecord(q *domain.Quote) record {
	return record{ID: q.ID, Quote: q.Quote, Author: q.Author, Year: q.Year}
}

func (r record) toDomain() *domain.Quote {
	return &domain.Quote{ID: r.ID, Quote: r.Quote, Author: r.Author, Year: r.Year}
}

// load reads s.path, falling back to the seed when the file is missing.
func (s *FileStore) load() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating records directory: %w", err)
	}

	data, err := os.ReadFile(s.path)

	switch {
	case err == nil:
		quotes, decodeErr := decodeFile(data)
		if decodeErr != nil {
			return fmt.Errorf("loading records %s: %w", s.path, decodeErr)
		}

		s.quotes = quotes
		s.lastWritten = data

		return nil

	case errors.Is(err, fs.ErrNotExist):
		return s.seed()

	default:
		return fmt.Errorf("reading records %s: %w", s.path, err)
	}
}

// seed imports s.seedPath and persists the result. Without a seed the store starts empty.
func (s *FileStore) seed() error {
	if s.seedPath == "" {
		return nil
	}

	data, err := os.ReadFile(s.seedPath)
	if err != nil {
		return fmt.Errorf("reading seed %s: %w", s.seedPath, err)
	}

	quotes, err := decodeSeed(data, s.newID)
	if err != nil {
		return fmt.Errorf("loading seed %s: %w", s.seedPath, err)
	}

	if err := s.commit(quotes); err != nil {
		return err
	}

	s.logger.Info("records seeded",
		slog.String("seed_path", s.seedPath),
		slog.Int("quotes", len(quotes)),
	)

	return nil
}

func encodeFile(quotes []*domain.Quote) ([]byte, error) {
	doc := document{Records: make([]record, len(quotes))}
	for i, q := range quotes {
		doc.Records[i] = toRecord(q)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding records: %w", err)
	}

	return append(data, '\n'), nil
}

// decodeFile parses a records file. Every record must have a unique id and
// pass domain validation.
func decodeFile(data []byte) ([]*domain.Quote, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding records: %w", err)
	}

	return toQuotes(doc.Records, nil)
}

// decodeSeed parses a YAML seed. Records without an id get one from newID.
func decodeSeed(data []byte, newID func() string) ([]*domain.Quote, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding seed: %w", err)
	}

	return toQuotes(doc.Records, newID)
}

func toQuotes(records []record, newID func() string) ([]*domain.Quote, error) {
	quotes := make([]*domain.Quote, 0, len(records))
	seen := make(map[string]struct{}, len(records))

	for i, r := range records {
		if r.ID == "" && newID != nil {
			r.ID = newID()
		}

		if r.ID == "" {
			return nil, fmt.Errorf("record %d: missing id", i)
		}

		if _, dup := seen[r.ID]; dup {
			return nil, fmt.Errorf("record %d: duplicate id %q", i, r.ID)
		}

		seen[r.ID] = struct{}{}

		q := r.toDomain()
		if err := q.Validate(); err != nil {
			return nil, fmt.Errorf("record %d (%s): %w", i, r.ID, err)
		}

		quotes = append(quotes, q)
	}

	return quotes, nil
}

// writeFileAtomic writes data to a temp file in path's directory and renames
// it over path, so readers never observe a partial file.
func writeFileAtomic(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}

	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}

	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), path)
}

// sameContent reports whether data matches what this store last wrote.
func (s *FileStore) sameContent(data []byte) bool {
	return s.lastWritten != nil && bytes.Equal(s.lastWritten, data)
}
