// Package evaluator implements one evaluator per guardrail kind. Every
// evaluator consults the classifier gateway first and degrades to the
// deterministic pattern library on any gateway failure; an unsafe outcome is
// a normal result, never an error.
package evaluator

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/AegisGov/AegisGate/pkg/domain/guardrail"
	"github.com/AegisGov/AegisGate/pkg/domain/guardrail/classifier"
)

// BlockThreshold is the score at or above which score-based evaluators
// escalate from flagged to blocked.
const BlockThreshold = 0.7

type Evaluator interface {
	Kind() guardrail.Kind
	// Evaluate classifies the text against this evaluator's policy. It always
	// returns a result; infrastructure failures are absorbed by the fallback.
	Evaluate(ctx context.Context, text string) guardrail.Result
}

// ForKind resolves the evaluator backing a guardrail kind. Kinds without a
// real evaluator, including ones this build has never heard of, resolve to
// the unimplemented evaluator so callers stay forward-compatible.
func ForKind(kind guardrail.Kind, gateway *classifier.Gateway, logger *logrus.Logger) Evaluator {
	switch kind {
	case guardrail.KindPIIDetection:
		return NewPII(gateway, logger)
	case guardrail.KindToxicity:
		return NewToxicity(gateway, logger)
	case guardrail.KindPromptInjection:
		return NewPromptInjection(gateway, logger)
	case guardrail.KindSensitiveRequest:
		return NewSensitiveRequest(gateway, logger)
	case guardrail.KindHallucination:
		return NewUnimplemented(kind)
	default:
		return NewUnimplemented(kind)
	}
}

func usageOf(u classifier.Usage) *guardrail.TokenUsage {
	if u.TotalTokens == 0 {
		return nil
	}
	return &guardrail.TokenUsage{
		PromptTokens:     u.PromptTokens,
		CompletionTokens: u.CompletionTokens,
		TotalTokens:      u.TotalTokens,
		EstimatedCost:    u.EstimatedCost(),
	}
}
