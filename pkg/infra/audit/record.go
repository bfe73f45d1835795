// Package audit persists one append-only record per guardrail evaluation.
// Emission is best effort: a failing sink degrades to a structured local log
// line and never fails the evaluation that produced the record.
package audit

import "time"

// Record is one write-once audit entry for a (request, evaluator) pair.
type Record struct {
	RequestID        string                 `json:"request_id"`
	Timestamp        time.Time              `json:"timestamp"`
	AgentID          string                 `json:"agent_id"`
	UserID           string                 `json:"user_id,omitempty"`
	Department       string                 `json:"department,omitempty"`
	SessionID        string                 `json:"session_id,omitempty"`
	GuardrailType    string                 `json:"guardrail_type"`
	Status           string                 `json:"status"`
	PromptLength     int                    `json:"prompt_length"`
	HasPII           bool                   `json:"has_pii"`
	ProcessingTimeMs float64                `json:"processing_time_ms"`
	ModelUsed        string                 `json:"model_used"`
	Metadata         map[string]interface{} `json:"metadata,omitempty"`
	OriginalPrompt   string                 `json:"original_prompt,omitempty"`
	RedactedPrompt   string                 `json:"redacted_prompt,omitempty"`
}
