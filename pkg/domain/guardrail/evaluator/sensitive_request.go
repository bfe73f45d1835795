package evaluator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/AegisGov/AegisGate/pkg/domain/guardrail"
	"github.com/AegisGov/AegisGate/pkg/domain/guardrail/classifier"
	"github.com/AegisGov/AegisGate/pkg/domain/guardrail/patterns"
)

type sensitiveRequestEvaluator struct {
	gateway *classifier.Gateway
	logger  *logrus.Logger
}

func NewSensitiveRequest(gateway *classifier.Gateway, logger *logrus.Logger) Evaluator {
	return &sensitiveRequestEvaluator{gateway: gateway, logger: logger}
}

func (e *sensitiveRequestEvaluator) Kind() guardrail.Kind {
	return guardrail.KindSensitiveRequest
}

// Evaluate blocks whenever the text solicits any sensitive data type. Like
// PII, the outcome is binary. This is the only evaluator shared between
// prompt and output checking.
func (e *sensitiveRequestEvaluator) Evaluate(ctx context.Context, text string) guardrail.Result {
	start := time.Now()

	finding, err := e.gateway.DetectSensitiveRequest(ctx, text)
	if err != nil {
		finding = e.fallback(text)
	}

	status := guardrail.StatusPassed
	confidence := 0.0
	if finding.RequestsSensitiveData {
		status = guardrail.StatusBlocked
		confidence = 1.0
	}

	return guardrail.Result{
		Kind:       e.Kind(),
		Status:     status,
		Confidence: confidence,
		Details: map[string]interface{}{
			"requests_sensitive_data": finding.RequestsSensitiveData,
			"sensitive_types":         finding.Types,
			"explanation":             finding.Details,
		},
		ProcessingTimeMs: float64(time.Since(start).Microseconds()) / 1000.0,
		Usage:            usageOf(finding.Usage),
	}
}

func (e *sensitiveRequestEvaluator) fallback(text string) *classifier.SensitiveRequestFinding {
	matched := patterns.MatchSensitiveRequest(text)
	finding := &classifier.SensitiveRequestFinding{
		Details: "No sensitive data requests detected",
	}
	if len(matched) > 0 {
		finding.RequestsSensitiveData = true
		for _, t := range matched {
			finding.Types = append(finding.Types, string(t))
		}
		finding.Details = fmt.Sprintf("Detected request for: %s", strings.Join(finding.Types, ", "))
	}
	return finding
}
