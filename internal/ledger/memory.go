package ledger

import (
	"context"
	"errors"
	"sync"

	"github.com/rgehrsitz/ukpayroll/internal/domain"
)

// MemoryStore keeps ledgers in process memory
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]map[string]Entry
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]map[string]Entry)}
}

func (s *MemoryStore) Get(_ context.Context, employeeID, taxYear string) (Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.data[taxYear][employeeID]
	if !ok {
		return Entry{}, ErrNotFound
	}
	return entry, nil
}

func (s *MemoryStore) Put(_ context.Context, employeeID, taxYear string, entry Entry) error {
	if err := validateKey(employeeID, taxYear, entry.LastPeriod); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	year, ok := s.data[taxYear]
	if !ok {
		year = make(map[string]Entry)
		s.data[taxYear] = year
	}
	if prev, ok := year[employeeID]; ok {
		if err := CheckPosting(prev, entry); err != nil {
			return err
		}
	}
	year[employeeID] = entry
	return nil
}

func (s *MemoryStore) List(_ context.Context, taxYear string) (map[string]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]Entry, len(s.data[taxYear]))
	for id, entry := range s.data[taxYear] {
		out[id] = entry
	}
	return out, nil
}

// GetOrDefault returns the stored entry, or fallback with no posted period when none exists
func GetOrDefault(ctx context.Context, s Store, employeeID, taxYear string, fallback domain.EmployeeYTDData) (Entry, bool, error) {
	entry, err := s.Get(ctx, employeeID, taxYear)
	if errors.Is(err, ErrNotFound) {
		return Entry{EmployeeYTDData: fallback}, false, nil
	}
	if err != nil {
		return Entry{}, false, err
	}
	return entry, true, nil
}
