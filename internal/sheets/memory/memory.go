// Package memory is an in-process sheets stand-in for development and
// tests. No credentials, no network.
package memory

import (
	"context"
	"fmt"
	"sync"

	"budgetin/internal/core"
	ports "budgetin/internal/sheets"
)

type Store struct {
	mu    sync.Mutex
	items []core.Transaction
}

var (
	_ ports.TransactionWriter = (*Store)(nil)
	_ ports.MonthReader       = (*Store)(nil)
)

func New() *Store {
	return &Store{}
}

// AppendTransaction stores the transaction and returns a synthetic row
// reference.
func (s *Store) AppendTransaction(_ context.Context, tx core.Transaction) (string, error) {
	if err := tx.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, tx)
	return fmt.Sprintf("mem:%s:%d", core.WorksheetName(tx.Timestamp.Year(), int(tx.Timestamp.Month())), len(s.items)), nil
}

// ListMonth returns stored transactions for the given month, in append
// order.
func (s *Store) ListMonth(_ context.Context, year, month int) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Transaction
	for _, tx := range s.items {
		if tx.Timestamp.Year() == year && int(tx.Timestamp.Month()) == month {
			out = append(out, tx)
		}
	}
	return out, nil
}

// Len reports how many transactions have been appended.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}
