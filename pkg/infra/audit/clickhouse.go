package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/sirupsen/logrus"

	"github.com/AegisGov/AegisGate/pkg/infra/metrics"
)

const (
	bufferSize    = 10_000
	flushInterval = 100 * time.Millisecond
	flushBatch    = 500
	drainTimeout  = 2 * time.Second
)

const auditTableDDL = `
CREATE TABLE IF NOT EXISTS audit_logs (
    request_id         String,
    timestamp          DateTime64(3),
    agent_id           String,
    user_id            String,
    department         String,
    session_id         String,
    guardrail_type     String,
    status             String,
    prompt_length      Int64,
    has_pii            UInt8,
    processing_time_ms Float64,
    model_used         String,
    metadata           String,
    original_prompt    String,
    redacted_prompt    String
) ENGINE = MergeTree()
PARTITION BY toYYYYMMDD(timestamp)
ORDER BY (agent_id, timestamp)
`

// ClickHouseSink batch-inserts audit records asynchronously. Emit is
// non-blocking: records are buffered and flushed in a background goroutine;
// when the buffer is full the record is logged through the fallback instead
// of being dropped silently.
type ClickHouseSink struct {
	conn     driver.Conn
	buffer   chan *Record
	done     chan struct{}
	flushed  chan struct{}
	logger   *logrus.Logger
	fallback *FallbackSink
	metrics  *metrics.Registry
}

// NewClickHouseSink connects to ClickHouse, provisions the audit table and
// starts the flush loop.
func NewClickHouseSink(dsn string, logger *logrus.Logger, m *metrics.Registry) (*ClickHouseSink, error) {
	opts, err := clickhouse.ParseDSN(dsn)
	if err != nil {
		return nil, err
	}

	conn, err := clickhouse.Open(opts)
	if err != nil {
		return nil, err
	}
	if err := conn.Ping(context.Background()); err != nil {
		return nil, err
	}
	if err := conn.Exec(context.Background(), auditTableDDL); err != nil {
		return nil, err
	}

	s := &ClickHouseSink{
		conn:     conn,
		buffer:   make(chan *Record, bufferSize),
		done:     make(chan struct{}),
		flushed:  make(chan struct{}),
		logger:   logger,
		fallback: NewFallbackSink(logger),
		metrics:  m,
	}
	go s.flushLoop()
	return s, nil
}

func (s *ClickHouseSink) Emit(ctx context.Context, record *Record) error {
	select {
	case s.buffer <- record:
		return nil
	default:
		if s.metrics != nil {
			s.metrics.AuditDroppedTotal.Inc()
		}
		s.logger.WithField("request_id", record.RequestID).
			Warn("audit buffer full, writing record to fallback log")
		return s.fallback.Emit(ctx, record)
	}
}

// Close signals the flush loop to drain remaining records and waits for it.
func (s *ClickHouseSink) Close() {
	close(s.done)
	<-s.flushed
}

func (s *ClickHouseSink) flushLoop() {
	defer close(s.flushed)

	ticker := time.NewTicker(flushInterval)
	defer ticker.Stop()

	batch := make([]*Record, 0, flushBatch)

	for {
		select {
		case record := <-s.buffer:
			batch = append(batch, record)
			if len(batch) >= flushBatch {
				s.flush(batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				s.flush(batch)
				batch = batch[:0]
			}
		case <-s.done:
			drainCtx, cancel := context.WithTimeout(context.Background(), drainTimeout)
			defer cancel()
		drainLoop:
			for {
				select {
				case record := <-s.buffer:
					batch = append(batch, record)
				case <-drainCtx.Done():
					break drainLoop
				default:
					break drainLoop
				}
			}
			if len(batch) > 0 {
				s.flush(batch)
			}
			return
		}
	}
}

func (s *ClickHouseSink) flush(records []*Record) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO audit_logs (
			request_id, timestamp, agent_id, user_id, department, session_id,
			guardrail_type, status, prompt_length, has_pii, processing_time_ms,
			model_used, metadata, original_prompt, redacted_prompt
		)
	`)
	if err != nil {
		s.logger.WithError(err).Error("clickhouse prepare batch failed, writing records to fallback log")
		s.flushToFallback(ctx, records)
		return
	}

	for _, r := range records {
		var hasPII uint8
		if r.HasPII {
			hasPII = 1
		}

		metadata := ""
		if len(r.Metadata) > 0 {
			if encoded, mErr := json.Marshal(r.Metadata); mErr == nil {
				metadata = string(encoded)
			}
		}

		if err := batch.Append(
			r.RequestID,
			r.Timestamp,
			r.AgentID,
			r.UserID,
			r.Department,
			r.SessionID,
			r.GuardrailType,
			r.Status,
			int64(r.PromptLength),
			hasPII,
			r.ProcessingTimeMs,
			r.ModelUsed,
			metadata,
			r.OriginalPrompt,
			r.RedactedPrompt,
		); err != nil {
			s.logger.WithError(err).WithField("request_id", r.RequestID).
				Error("clickhouse append record failed")
		}
	}

	if err := batch.Send(); err != nil {
		s.logger.WithError(err).WithField("batch_size", len(records)).
			Error("clickhouse batch send failed, writing records to fallback log")
		s.flushToFallback(ctx, records)
	}
}

func (s *ClickHouseSink) flushToFallback(ctx context.Context, records []*Record) {
	for _, r := range records {
		_ = s.fallback.Emit(ctx, r)
	}
}
