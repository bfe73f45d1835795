package evaluator

import (
	"context"
	"fmt"
	"time"

	"github.com/AegisGov/AegisGate/pkg/domain/guardrail"
)

type unimplementedEvaluator struct {
	kind guardrail.Kind
}

// NewUnimplemented returns the evaluator for kinds without real detection
// logic. It always passes with zero confidence so unknown kinds flow through
// the orchestrator without error.
func NewUnimplemented(kind guardrail.Kind) Evaluator {
	return &unimplementedEvaluator{kind: kind}
}

func (e *unimplementedEvaluator) Kind() guardrail.Kind {
	return e.kind
}

func (e *unimplementedEvaluator) Evaluate(_ context.Context, _ string) guardrail.Result {
	start := time.Now()
	return guardrail.Result{
		Kind:       e.kind,
		Status:     guardrail.StatusPassed,
		Confidence: 0,
		Details: map[string]interface{}{
			"implemented": false,
			"message":     fmt.Sprintf("%s is not implemented yet", e.kind),
		},
		ProcessingTimeMs: float64(time.Since(start).Microseconds()) / 1000.0,
	}
}
