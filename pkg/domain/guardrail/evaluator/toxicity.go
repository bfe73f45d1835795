package evaluator

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/AegisGov/AegisGate/pkg/domain/guardrail"
	"github.com/AegisGov/AegisGate/pkg/domain/guardrail/classifier"
	"github.com/AegisGov/AegisGate/pkg/domain/guardrail/patterns"
)

// fallbackToxicityScore caps the keyword heuristic below BlockThreshold so a
// degraded toxicity check can flag but never block.
const fallbackToxicityScore = 0.5

type toxicityEvaluator struct {
	gateway *classifier.Gateway
	logger  *logrus.Logger
}

func NewToxicity(gateway *classifier.Gateway, logger *logrus.Logger) Evaluator {
	return &toxicityEvaluator{gateway: gateway, logger: logger}
}

func (e *toxicityEvaluator) Kind() guardrail.Kind {
	return guardrail.KindToxicity
}

func (e *toxicityEvaluator) Evaluate(ctx context.Context, text string) guardrail.Result {
	start := time.Now()

	finding, err := e.gateway.ScoreToxicity(ctx, text)
	if err != nil {
		finding = e.fallback(text)
	}

	status := guardrail.StatusPassed
	if finding.IsToxic {
		if finding.Score >= BlockThreshold {
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
			"is_toxic":        finding.IsToxic,
			"toxicity_score":  finding.Score,
			"categories":      finding.Categories,
			"category_scores": finding.CategoryScores,
			"explanation":     finding.Details,
		},
		ProcessingTimeMs: float64(time.Since(start).Microseconds()) / 1000.0,
		Usage:            usageOf(finding.Usage),
	}
}

func (e *toxicityEvaluator) fallback(text string) *classifier.ToxicityFinding {
	finding := &classifier.ToxicityFinding{
		CategoryScores: map[string]float64{},
		Details:        "No toxic content detected",
	}
	if patterns.ContainsToxicKeyword(text) {
		finding.IsToxic = true
		finding.Score = fallbackToxicityScore
		finding.Categories = []string{"potential_toxicity"}
		finding.Details = "Basic keyword detection (fallback mode)"
	}
	return finding
}
