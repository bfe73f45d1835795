package audit

import (
	"context"

	"github.com/sirupsen/logrus"
)

// Sink receives audit records. Implementations must be non-blocking from the
// caller's perspective; the evaluation response is never held up by audit IO.
type Sink interface {
	Emit(ctx context.Context, record *Record) error
	Close()
}

// FallbackSink writes records as structured log lines. It backs deployments
// without an analytics store and is the degradation target when the primary
// sink cannot accept a record.
type FallbackSink struct {
	logger *logrus.Logger
}

func NewFallbackSink(logger *logrus.Logger) *FallbackSink {
	return &FallbackSink{logger: logger}
}

func (s *FallbackSink) Emit(_ context.Context, record *Record) error {
	s.logger.WithFields(logrus.Fields{
		"request_id":         record.RequestID,
		"timestamp":          record.Timestamp,
		"agent_id":           record.AgentID,
		"guardrail":          record.GuardrailType,
		"status":             record.Status,
		"has_pii":            record.HasPII,
		"processing_time_ms": record.ProcessingTimeMs,
	}).Info("audit record")
	return nil
}

func (s *FallbackSink) Close() {}
