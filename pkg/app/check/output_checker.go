package check

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/AegisGov/AegisGate/pkg/domain"
	"github.com/AegisGov/AegisGate/pkg/domain/conversation"
	"github.com/AegisGov/AegisGate/pkg/domain/guardrail"
	"github.com/AegisGov/AegisGate/pkg/domain/guardrail/classifier"
	"github.com/AegisGov/AegisGate/pkg/domain/guardrail/evaluator"
	"github.com/AegisGov/AegisGate/pkg/infra/audit"
	"github.com/AegisGov/AegisGate/pkg/infra/metrics"
)

// BlockedResponseMessage replaces an agent response that failed the output
// check. The original text is never partially redacted on the way out.
const BlockedResponseMessage = "[BLOCKED: Response violated content policy]"

const outputGuardrailType = "output_guardrail"

const redactedPromptLimit = 500

// OutputChecker vets generated agent responses before they reach the user.
// It runs exactly the sensitive-request and toxicity evaluators; PII and
// injection checks apply to the inbound direction only.
type OutputChecker struct {
	gateway       *classifier.Gateway
	sink          audit.Sink
	conversations conversation.Repository
	logger        *logrus.Logger
	metrics       *metrics.Registry
}

func NewOutputChecker(
	gateway *classifier.Gateway,
	sink audit.Sink,
	conversations conversation.Repository,
	logger *logrus.Logger,
	m *metrics.Registry,
) *OutputChecker {
	return &OutputChecker{
		gateway:       gateway,
		sink:          sink,
		conversations: conversations,
		logger:        logger,
		metrics:       m,
	}
}

// CheckOutput evaluates the agent response and returns either the untouched
// text or the fixed blocked-response message, never a partial rewrite.
func (c *OutputChecker) CheckOutput(ctx context.Context, req guardrail.OutputCheckRequest) (*guardrail.OutputCheckResponse, error) {
	start := time.Now()

	if strings.TrimSpace(req.AgentResponse) == "" {
		return nil, guardrail.NewValidationError("agent_response must not be empty")
	}

	agentID := req.AgentID
	if agentID == "" {
		agentID = defaultAgentID
	}
	requestID := uuid.NewString()

	sensitive := evaluator.NewSensitiveRequest(c.gateway, c.logger).Evaluate(ctx, req.AgentResponse)
	toxicity := evaluator.NewToxicity(c.gateway, c.logger).Evaluate(ctx, req.AgentResponse)

	var violations []string
	var reasons []string
	if sensitive.Status == guardrail.StatusBlocked {
		types := stringSlice(sensitive.Details["sensitive_types"])
		violations = append(violations, types...)
		reasons = append(reasons, "Agent response requests sensitive data: "+strings.Join(types, ", "))
	}
	if toxicity.Status == guardrail.StatusBlocked {
		categories := stringSlice(toxicity.Details["categories"])
		if len(categories) == 0 {
			categories = []string{"unspecified"}
		}
		for _, category := range categories {
			violations = append(violations, "toxic:"+category)
		}
		reasons = append(reasons, "Toxic content detected: "+strings.Join(categories, ", "))
	}

	safe := len(violations) == 0
	safeResponse := req.AgentResponse
	status := guardrail.StatusPassed
	if !safe {
		safeResponse = BlockedResponseMessage
		status = guardrail.StatusBlocked
	}

	processingMs := float64(time.Since(start).Microseconds()) / 1000.0
	c.emitOutputAudit(ctx, requestID, agentID, req, status, violations, sensitive, toxicity, processingMs)
	if c.metrics != nil {
		c.metrics.ObserveEvaluation(outputGuardrailType, string(status), processingMs/1000.0)
	}

	if c.conversations != nil && req.SessionID != "" {
		message := &conversation.Message{
			ID:        uuid.New(),
			SessionID: req.SessionID,
			AgentID:   agentID,
			UserID:    req.UserID,
			Role:      "assistant",
			Content:   safeResponse,
			Status:    string(status),
			Metadata:  domain.MetadataJSON{"request_id": requestID},
			CreatedAt: time.Now().UTC(),
		}
		if err := c.conversations.Save(ctx, message); err != nil {
			c.logger.WithError(err).WithField("session_id", req.SessionID).
				Warn("failed to record conversation message")
		}
	}

	c.logger.WithFields(logrus.Fields{
		"request_id": requestID,
		"agent_id":   agentID,
		"safe":       safe,
		"violations": len(violations),
	}).Info("output check completed")

	response := &guardrail.OutputCheckResponse{
		RequestID:        requestID,
		AgentID:          agentID,
		Safe:             safe,
		Violations:       violations,
		OriginalResponse: req.AgentResponse,
		SafeResponse:     safeResponse,
		Timestamp:        time.Now().UTC(),
		ProcessingTimeMs: processingMs,
	}
	if len(reasons) > 0 {
		reason := strings.Join(reasons, "; ")
		response.BlockedReason = &reason
	}
	return response, nil
}

func (c *OutputChecker) emitOutputAudit(
	ctx context.Context,
	requestID, agentID string,
	req guardrail.OutputCheckRequest,
	status guardrail.Status,
	violations []string,
	sensitive, toxicity guardrail.Result,
	processingMs float64,
) {
	redacted := ""
	if status == guardrail.StatusBlocked {
		redacted = req.AgentResponse
		if len(redacted) > redactedPromptLimit {
			redacted = redacted[:redactedPromptLimit]
		}
	}

	record := &audit.Record{
		RequestID:        requestID,
		Timestamp:        time.Now().UTC(),
		AgentID:          agentID,
		UserID:           req.UserID,
		SessionID:        req.SessionID,
		GuardrailType:    outputGuardrailType,
		Status:           string(status),
		PromptLength:     len(req.AgentResponse),
		ProcessingTimeMs: processingMs,
		ModelUsed:        c.gateway.ModelName(),
		Metadata: map[string]interface{}{
			"check_type":          "output",
			"violations":          violations,
			"sensitive_types":     sensitive.Details["sensitive_types"],
			"toxicity_detected":   toxicity.Details["is_toxic"],
			"toxicity_categories": toxicity.Details["categories"],
		},
		OriginalPrompt: req.OriginalPrompt,
		RedactedPrompt: redacted,
	}
	if err := c.sink.Emit(ctx, record); err != nil {
		c.logger.WithError(err).WithField("request_id", requestID).
			Warn("failed to emit audit record")
	}
}

func stringSlice(value interface{}) []string {
	switch v := value.(type) {
	case []string:
		return v
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
