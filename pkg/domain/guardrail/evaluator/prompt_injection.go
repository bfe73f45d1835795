package evaluator

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/AegisGov/AegisGate/pkg/domain/guardrail"
	"github.com/AegisGov/AegisGate/pkg/domain/guardrail/classifier"
	"github.com/AegisGov/AegisGate/pkg/domain/guardrail/patterns"
)

// familyScoreWeight converts the number of matched injection families into a
// fallback score: min(0.3 * families, 1.0).
const familyScoreWeight = 0.3

type promptInjectionEvaluator struct {
	gateway *classifier.Gateway
	logger  *logrus.Logger
}

func NewPromptInjection(gateway *classifier.Gateway, logger *logrus.Logger) Evaluator {
	return &promptInjectionEvaluator{gateway: gateway, logger: logger}
}

func (e *promptInjectionEvaluator) Kind() guardrail.Kind {
	return guardrail.KindPromptInjection
}

func (e *promptInjectionEvaluator) Evaluate(ctx context.Context, text string) guardrail.Result {
	start := time.Now()

	fellBack := false
	finding, err := e.gateway.DetectInjection(ctx, text)
	if err != nil {
		finding = e.fallback(text)
		fellBack = true
	}

	status := guardrail.StatusPassed
	if finding.IsInjection {
		// The pattern fallback cannot distinguish a real attack from phrasing
		// that merely resembles one, so it escalates at most to flagged.
		if finding.Score >= BlockThreshold && !fellBack {
			status = guardrail.StatusBlocked
		} else {
			status = guardrail.StatusFlagged
		}
	}

	return guardrail.Result{
		Kind:       e.Kind(),
		Status:     status,
		Confidence: finding.Score,
		Details: map[string]interface{}{
			"is_injection":        finding.IsInjection,
			"injection_score":     finding.Score,
			"injection_types":     finding.Types,
			"suspicious_patterns": finding.SuspiciousPatterns,
			"explanation":         finding.Details,
		},
		ProcessingTimeMs: float64(time.Since(start).Microseconds()) / 1000.0,
		Usage:            usageOf(finding.Usage),
	}
}

func (e *promptInjectionEvaluator) fallback(text string) *classifier.InjectionFinding {
	families, matched := patterns.MatchInjection(text)
	finding := &classifier.InjectionFinding{
		Details: "No injection attempts detected",
	}
	if len(families) > 0 {
		score := familyScoreWeight * float64(len(families))
		if score > 1.0 {
			score = 1.0
		}
		finding.IsInjection = true
		finding.Score = score
		finding.Types = families
		finding.SuspiciousPatterns = matched
		finding.Details = "Pattern-based detection (fallback mode)"
	}
	return finding
}
