// Package memory provides an in-memory report mirror for tests and local
// development runs without Google credentials.
package memory

import (
	"context"
	"sync"

	ports "financas/internal/sheets"
)

type Store struct {
	mu   sync.Mutex
	rows []Row
}

// Row is one mirrored entry together with the user it belongs to.
type Row struct {
	UserName string
	ports.RangeRow
}

var _ ports.ReportWriter = (*Store)(nil)

func New() *Store {
	return &Store{}
}

func (s *Store) AppendRangeRows(_ context.Context, userName string, rows []ports.RangeRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range rows {
		s.rows = append(s.rows, Row{UserName: userName, RangeRow: r})
	}
	return nil
}

// Rows returns a copy of everything mirrored so far.
func (s *Store) Rows() []Row {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Row(nil), s.rows...)
}
