package ledger

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sync"

	"gopkg.in/yaml.v3"
)

var taxYearFilePattern = regexp.MustCompile(`^[0-9A-Za-z_-]+$`)

// FileStore keeps one YAML file per tax year under Dir, mapping employee ID to ledger
type FileStore struct {
	Dir string
	mu  sync.Mutex
}

// NewFileStore creates a store rooted at dir, creating it if needed
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create ledger directory %s: %w", dir, err)
	}
	return &FileStore{Dir: dir}, nil
}

func (s *FileStore) path(taxYear string) (string, error) {
	if !taxYearFilePattern.MatchString(taxYear) {
		return "", fmt.Errorf("invalid tax year %q", taxYear)
	}
	return filepath.Join(s.Dir, "ytd-"+taxYear+".yaml"), nil
}

func (s *FileStore) load(taxYear string) (map[string]Entry, error) {
	p, err := s.path(taxYear)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]Entry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read ledger %s: %w", p, err)
	}
	year := map[string]Entry{}
	if err := yaml.Unmarshal(data, &year); err != nil {
		return nil, fmt.Errorf("failed to parse ledger %s: %w", p, err)
	}
	return year, nil
}

func (s *FileStore) save(taxYear string, year map[string]Entry) error {
	p, err := s.path(taxYear)
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(year)
	if err != nil {
		return fmt.Errorf("failed to encode ledger: %w", err)
	}
	tmp := p + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write ledger %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, p); err != nil {
		return fmt.Errorf("failed to replace ledger %s: %w", p, err)
	}
	return nil
}

func (s *FileStore) Get(_ context.Context, employeeID, taxYear string) (Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	year, err := s.load(taxYear)
	if err != nil {
		return Entry{}, err
	}
	entry, ok := year[employeeID]
	if !ok {
		return Entry{}, ErrNotFound
	}
	return entry, nil
}

func (s *FileStore) Put(_ context.Context, employeeID, taxYear string, entry Entry) error {
	if err := validateKey(employeeID, taxYear, entry.LastPeriod); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	year, err := s.load(taxYear)
	if err != nil {
		return err
	}
	if prev, ok := year[employeeID]; ok {
		if err := CheckPosting(prev, entry); err != nil {
			return err
		}
	}
	year[employeeID] = entry
	return s.save(taxYear, year)
}

func (s *FileStore) List(_ context.Context, taxYear string) (map[string]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(taxYear)
}
