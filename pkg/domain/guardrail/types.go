// Package guardrail defines the core types for content safety checks:
// guardrail kinds, the ordered evaluation status, per-evaluator results and
// the request/response shapes used by the check operations.
package guardrail

import (
	"fmt"
	"time"
)

// Kind identifies a safety policy applied to text.
type Kind string

const (
	KindPIIDetection     Kind = "pii_detection"
	KindSensitiveRequest Kind = "sensitive_request"
	KindToxicity         Kind = "toxicity"
	KindPromptInjection  Kind = "prompt_injection"
	// KindHallucination is recognized but not backed by a real evaluator yet.
	KindHallucination Kind = "hallucination"
)

// Implemented reports whether a real evaluator backs this kind. Unknown kinds
// are accepted and evaluated by the unimplemented evaluator, never rejected.
func (k Kind) Implemented() bool {
	switch k {
	case KindPIIDetection, KindSensitiveRequest, KindToxicity, KindPromptInjection:
		return true
	default:
		return false
	}
}

// AllKinds lists every recognized kind, implemented or not.
func AllKinds() []Kind {
	return []Kind{
		KindPIIDetection,
		KindSensitiveRequest,
		KindToxicity,
		KindPromptInjection,
		KindHallucination,
	}
}

// Status is the outcome of a guardrail evaluation. Statuses form a total
// order by severity: passed < flagged < blocked.
type Status string

const (
	StatusPassed  Status = "passed"
	StatusFlagged Status = "flagged"
	StatusBlocked Status = "blocked"
)

func (s Status) Severity() int {
	switch s {
	case StatusBlocked:
		return 2
	case StatusFlagged:
		return 1
	default:
		return 0
	}
}

// MergeStatus returns the more severe of the two statuses. The overall status
// of a batch is the fold of MergeStatus over all evaluator statuses.
func MergeStatus(a, b Status) Status {
	if b.Severity() > a.Severity() {
		return b
	}
	return a
}

// Result is a single evaluator's output for one input text.
type Result struct {
	Kind             Kind                   `json:"guardrail_type"`
	Status           Status                 `json:"status"`
	Confidence       float64                `json:"confidence"`
	Details          map[string]interface{} `json:"details,omitempty"`
	ProcessingTimeMs float64                `json:"processing_time_ms"`

	// RedactedText carries the safe variant produced by a blocking evaluator.
	// It is consumed by the orchestrator and never serialized directly.
	RedactedText string `json:"-"`
	// PIIDetected marks results where personal data was found, for auditing.
	PIIDetected bool `json:"-"`
	// Usage holds the classifier tokens consumed by this evaluation, when any.
	Usage *TokenUsage `json:"-"`
}

// TokenUsage aggregates classifier backend token consumption for one request.
type TokenUsage struct {
	PromptTokens     int     `json:"prompt_tokens"`
	CompletionTokens int     `json:"completion_tokens"`
	TotalTokens      int     `json:"total_tokens"`
	EstimatedCost    float64 `json:"estimated_cost"`
}

func (u *TokenUsage) Add(prompt, completion, total int, cost float64) {
	u.PromptTokens += prompt
	u.CompletionTokens += completion
	u.TotalTokens += total
	u.EstimatedCost += cost
}

// CheckRequest is the input of the prompt evaluation operation.
type CheckRequest struct {
	Prompt     string `json:"prompt"`
	AgentID    string `json:"agent_id"`
	UserID     string `json:"user_id,omitempty"`
	Department string `json:"department,omitempty"`
	SessionID  string `json:"session_id,omitempty"`
	Guardrails []Kind `json:"guardrails"`
}

// CheckResponse is the merged outcome of all requested evaluators.
// SafePrompt is set only when the overall status is blocked.
type CheckResponse struct {
	RequestID             string      `json:"request_id"`
	AgentID               string      `json:"agent_id"`
	OverallStatus         Status      `json:"overall_status"`
	Results               []Result    `json:"results"`
	OriginalPrompt        string      `json:"original_prompt"`
	SafePrompt            *string     `json:"safe_prompt,omitempty"`
	Timestamp             time.Time   `json:"timestamp"`
	TotalProcessingTimeMs float64     `json:"total_processing_time_ms"`
	TokenUsage            *TokenUsage `json:"token_usage,omitempty"`
}

// OutputCheckRequest vets a generated agent response before it reaches a user.
type OutputCheckRequest struct {
	AgentID        string `json:"agent_id"`
	UserID         string `json:"user_id,omitempty"`
	Department     string `json:"department,omitempty"`
	SessionID      string `json:"session_id,omitempty"`
	AgentResponse  string `json:"agent_response"`
	OriginalPrompt string `json:"original_prompt,omitempty"`
}

// OutputCheckResponse returns either the untouched agent response or a fixed
// blocked-response replacement, never a partial rewrite.
type OutputCheckResponse struct {
	RequestID        string    `json:"request_id"`
	AgentID          string    `json:"agent_id"`
	Safe             bool      `json:"is_safe"`
	Violations       []string  `json:"violations"`
	OriginalResponse string    `json:"original_response"`
	SafeResponse     string    `json:"safe_response"`
	BlockedReason    *string   `json:"blocked_reason,omitempty"`
	Timestamp        time.Time `json:"timestamp"`
	ProcessingTimeMs float64   `json:"processing_time_ms"`
}

// ValidationError reports client-side input problems detected before any
// evaluator runs. It maps to a 422 at the transport layer.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}
