package evaluator

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/AegisGov/AegisGate/pkg/domain/guardrail"
	"github.com/AegisGov/AegisGate/pkg/domain/guardrail/classifier"
	"github.com/AegisGov/AegisGate/pkg/domain/guardrail/patterns"
)

// fallbackPIIConfidence reflects the lower reliability of regex detection
// compared to the classifier.
const fallbackPIIConfidence = 0.7

type piiEvaluator struct {
	gateway *classifier.Gateway
	logger  *logrus.Logger
}

func NewPII(gateway *classifier.Gateway, logger *logrus.Logger) Evaluator {
	return &piiEvaluator{gateway: gateway, logger: logger}
}

func (e *piiEvaluator) Kind() guardrail.Kind {
	return guardrail.KindPIIDetection
}

// Evaluate blocks whenever any PII category is found. PII presence is binary:
// there is no flagged tier.
func (e *piiEvaluator) Evaluate(ctx context.Context, text string) guardrail.Result {
	start := time.Now()

	finding, err := e.gateway.DetectPII(ctx, text)
	if err != nil {
		finding = e.fallback(text)
	}

	status := guardrail.StatusPassed
	if finding.HasPII {
		status = guardrail.StatusBlocked
	}

	return guardrail.Result{
		Kind:       e.Kind(),
		Status:     status,
		Confidence: finding.Confidence,
		Details: map[string]interface{}{
			"has_pii":     finding.HasPII,
			"pii_types":   finding.Types,
			"explanation": finding.Details,
		},
		ProcessingTimeMs: float64(time.Since(start).Microseconds()) / 1000.0,
		RedactedText:     finding.RedactedText,
		PIIDetected:      finding.HasPII,
		Usage:            usageOf(finding.Usage),
	}
}

func (e *piiEvaluator) fallback(text string) *classifier.PIIFinding {
	types, redacted := patterns.DetectPII(text)
	finding := &classifier.PIIFinding{
		HasPII:  len(types) > 0,
		Types:   types,
		Details: "No PII detected",
	}
	if finding.HasPII {
		finding.RedactedText = redacted
		finding.Confidence = fallbackPIIConfidence
		finding.Details = "Regex-based detection (fallback mode)"
	}
	return finding
}
