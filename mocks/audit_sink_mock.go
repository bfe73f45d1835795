package mocks

import (
	"context"
	"sync"

	"github.com/AegisGov/AegisGate/pkg/infra/audit"
)

// RecordingSink captures audit records in memory for assertions.
type RecordingSink struct {
	mu      sync.Mutex
	records []*audit.Record
}

func (s *RecordingSink) Emit(_ context.Context, record *audit.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, record)
	return nil
}

func (s *RecordingSink) Close() {}

func (s *RecordingSink) Records() []*audit.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*audit.Record, len(s.records))
	copy(out, s.records)
	return out
}
