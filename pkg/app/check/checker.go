// Package check implements the guardrail evaluation use cases: batch
// checking of user prompts and output vetting of generated responses.
package check

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/AegisGov/AegisGate/pkg/domain"
	"github.com/AegisGov/AegisGate/pkg/domain/conversation"
	"github.com/AegisGov/AegisGate/pkg/domain/guardrail"
	"github.com/AegisGov/AegisGate/pkg/domain/guardrail/classifier"
	"github.com/AegisGov/AegisGate/pkg/domain/guardrail/evaluator"
	"github.com/AegisGov/AegisGate/pkg/infra/audit"
	"github.com/AegisGov/AegisGate/pkg/infra/metrics"
)

const defaultAgentID = "default"

// Checker orchestrates the requested evaluators over one prompt, merges
// their statuses by severity and emits one audit record per evaluator run.
type Checker struct {
	gateway        *classifier.Gateway
	sink           audit.Sink
	conversations  conversation.Repository
	logger         *logrus.Logger
	metrics        *metrics.Registry
	maxPromptBytes int
	parallel       bool
}

// NewChecker wires the orchestrator. conversations may be nil when session
// replay is not configured.
func NewChecker(
	gateway *classifier.Gateway,
	sink audit.Sink,
	conversations conversation.Repository,
	logger *logrus.Logger,
	m *metrics.Registry,
	maxPromptBytes int,
	parallel bool,
) *Checker {
	return &Checker{
		gateway:        gateway,
		sink:           sink,
		conversations:  conversations,
		logger:         logger,
		metrics:        m,
		maxPromptBytes: maxPromptBytes,
		parallel:       parallel,
	}
}

// CheckPrompt validates the request, runs every requested evaluator and
// returns the merged response. A blocked outcome is a normal response, not an
// error; only validation problems and genuine infrastructure failures return
// a non-nil error.
func (c *Checker) CheckPrompt(ctx context.Context, req guardrail.CheckRequest) (*guardrail.CheckResponse, error) {
	start := time.Now()

	if strings.TrimSpace(req.Prompt) == "" {
		return nil, guardrail.NewValidationError("prompt must not be empty")
	}
	if c.maxPromptBytes > 0 && len(req.Prompt) > c.maxPromptBytes {
		return nil, guardrail.NewValidationError("prompt exceeds maximum size of %d bytes", c.maxPromptBytes)
	}

	agentID := req.AgentID
	if agentID == "" {
		agentID = defaultAgentID
	}
	kinds := req.Guardrails
	if len(kinds) == 0 {
		kinds = []guardrail.Kind{guardrail.KindPIIDetection}
	}

	requestID := uuid.NewString()
	results := c.runEvaluators(ctx, kinds, req.Prompt)

	overall := guardrail.StatusPassed
	usage := &guardrail.TokenUsage{}
	for _, result := range results {
		overall = guardrail.MergeStatus(overall, result.Status)
		if result.Usage != nil {
			usage.Add(result.Usage.PromptTokens, result.Usage.CompletionTokens,
				result.Usage.TotalTokens, result.Usage.EstimatedCost)
		}
	}

	// Recombination is by requested-kind order, so the first blocking
	// evaluator wins the safe prompt regardless of execution interleaving.
	safeText := req.Prompt
	for _, result := range results {
		if result.Status == guardrail.StatusBlocked && result.RedactedText != "" {
			safeText = result.RedactedText
			break
		}
	}

	for i := range results {
		c.emitAudit(ctx, requestID, agentID, req, &results[i])
		if c.metrics != nil {
			c.metrics.ObserveEvaluation(string(results[i].Kind), string(results[i].Status),
				results[i].ProcessingTimeMs/1000.0)
		}
	}

	response := &guardrail.CheckResponse{
		RequestID:             requestID,
		AgentID:               agentID,
		OverallStatus:         overall,
		Results:               results,
		OriginalPrompt:        req.Prompt,
		Timestamp:             time.Now().UTC(),
		TotalProcessingTimeMs: float64(time.Since(start).Microseconds()) / 1000.0,
	}
	if overall == guardrail.StatusBlocked {
		response.SafePrompt = &safeText
	}
	if usage.TotalTokens > 0 {
		response.TokenUsage = usage
	}

	c.recordMessage(ctx, requestID, agentID, req, overall)

	c.logger.WithFields(logrus.Fields{
		"request_id": requestID,
		"agent_id":   agentID,
		"status":     overall,
		"guardrails": len(kinds),
		"tokens":     usage.TotalTokens,
	}).Info("guardrail check completed")

	return response, nil
}

// recordMessage appends the prompt to the session transcript so reviewers can
// replay it later. Best effort, same as audit emission.
func (c *Checker) recordMessage(ctx context.Context, requestID, agentID string, req guardrail.CheckRequest, status guardrail.Status) {
	if c.conversations == nil || req.SessionID == "" {
		return
	}
	message := &conversation.Message{
		ID:        uuid.New(),
		SessionID: req.SessionID,
		AgentID:   agentID,
		UserID:    req.UserID,
		Role:      "user",
		Content:   req.Prompt,
		Status:    string(status),
		Metadata:  domain.MetadataJSON{"request_id": requestID},
		CreatedAt: time.Now().UTC(),
	}
	if err := c.conversations.Save(ctx, message); err != nil {
		c.logger.WithError(err).WithField("session_id", req.SessionID).
			Warn("failed to record conversation message")
	}
}

// runEvaluators executes the evaluators and returns results in requested-kind
// order. Evaluators are independent pure functions of the same input, so they
// may run concurrently; results are recombined by index to stay deterministic.
func (c *Checker) runEvaluators(ctx context.Context, kinds []guardrail.Kind, text string) []guardrail.Result {
	results := make([]guardrail.Result, len(kinds))

	if c.parallel && len(kinds) > 1 {
		g, gctx := errgroup.WithContext(ctx)
		for i, kind := range kinds {
			i, kind := i, kind
			g.Go(func() error {
				results[i] = evaluator.ForKind(kind, c.gateway, c.logger).Evaluate(gctx, text)
				return nil
			})
		}
		// Evaluators never return errors; Wait only synchronizes.
		_ = g.Wait()
		return results
	}

	for i, kind := range kinds {
		results[i] = evaluator.ForKind(kind, c.gateway, c.logger).Evaluate(ctx, text)
	}
	return results
}

func (c *Checker) emitAudit(ctx context.Context, requestID, agentID string, req guardrail.CheckRequest, result *guardrail.Result) {
	record := &audit.Record{
		RequestID:        requestID,
		Timestamp:        time.Now().UTC(),
		AgentID:          agentID,
		UserID:           req.UserID,
		Department:       req.Department,
		SessionID:        req.SessionID,
		GuardrailType:    string(result.Kind),
		Status:           string(result.Status),
		PromptLength:     len(req.Prompt),
		HasPII:           result.PIIDetected,
		ProcessingTimeMs: result.ProcessingTimeMs,
		ModelUsed:        c.gateway.ModelName(),
		Metadata:         result.Details,
		OriginalPrompt:   req.Prompt,
		RedactedPrompt:   result.RedactedText,
	}
	if err := c.sink.Emit(ctx, record); err != nil {
		c.logger.WithError(err).WithField("request_id", requestID).
			Warn("failed to emit audit record")
	}
}
