package classifier_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AegisGov/AegisGate/pkg/domain/guardrail/classifier"
)

type fakeBackend struct {
	response string
	usage    classifier.Usage
	err      error
	calls    int
}

func (b *fakeBackend) Generate(_ context.Context, _ string, _ int32) (string, classifier.Usage, error) {
	b.calls++
	if b.err != nil {
		return "", b.usage, b.err
	}
	return b.response, b.usage, nil
}

func (b *fakeBackend) Model() string {
	return "fake-model"
}

func newGateway(backend classifier.Backend) *classifier.Gateway {
	logger := logrus.New()
	return classifier.NewGateway(backend, time.Second, logger, nil)
}

func TestGateway_NilBackendIsUnavailable(t *testing.T) {
	gateway := newGateway(nil)

	assert.False(t, gateway.Available())
	assert.Equal(t, "pattern_fallback", gateway.ModelName())

	_, err := gateway.DetectPII(context.Background(), "anything")
	assert.ErrorIs(t, err, classifier.ErrUnavailable)
}

func TestGateway_DetectPII_PlainJSON(t *testing.T) {
	backend := &fakeBackend{
		response: `{"has_pii": true, "pii_types": ["email"], "redacted_text": "contact [REDACTED_EMAIL]", "details": "one email", "confidence": 0.95}`,
		usage:    classifier.Usage{PromptTokens: 100, CompletionTokens: 20, TotalTokens: 120},
	}
	gateway := newGateway(backend)

	finding, err := gateway.DetectPII(context.Background(), "contact a@b.co")

	require.NoError(t, err)
	assert.True(t, finding.HasPII)
	assert.Equal(t, []string{"email"}, finding.Types)
	assert.Equal(t, "contact [REDACTED_EMAIL]", finding.RedactedText)
	assert.Equal(t, 0.95, finding.Confidence)
	assert.Equal(t, 120, finding.Usage.TotalTokens)
}

func TestGateway_DetectPII_FencedJSON(t *testing.T) {
	backend := &fakeBackend{
		response: "```json\n{\"has_pii\": false, \"pii_types\": [], \"details\": \"clean\"}\n```",
	}
	gateway := newGateway(backend)

	finding, err := gateway.DetectPII(context.Background(), "hello")

	require.NoError(t, err)
	assert.False(t, finding.HasPII)
}

func TestGateway_DetectPII_RepairableJSON(t *testing.T) {
	// Trailing comma is a common model mistake; the repair pass handles it.
	backend := &fakeBackend{
		response: `{"has_pii": true, "pii_types": ["ssn"],}`,
	}
	gateway := newGateway(backend)

	finding, err := gateway.DetectPII(context.Background(), "123-45-6789")

	require.NoError(t, err)
	assert.True(t, finding.HasPII)
	assert.Equal(t, []string{"ssn"}, finding.Types)
}

func TestGateway_DetectPII_GarbageIsUnavailable(t *testing.T) {
	backend := &fakeBackend{
		response: "I cannot analyze this text, sorry.",
	}
	gateway := newGateway(backend)

	_, err := gateway.DetectPII(context.Background(), "hello")

	assert.ErrorIs(t, err, classifier.ErrUnavailable)
}

func TestGateway_DefaultConfidenceWhenPIIFound(t *testing.T) {
	backend := &fakeBackend{
		response: `{"has_pii": true, "pii_types": ["phone"], "redacted_text": "x"}`,
	}
	gateway := newGateway(backend)

	finding, err := gateway.DetectPII(context.Background(), "555-867-5309")

	require.NoError(t, err)
	assert.Equal(t, 1.0, finding.Confidence)
}

func TestGateway_ScoreToxicity_SafetyBlockIsToxicSignal(t *testing.T) {
	backend := &fakeBackend{
		err: &classifier.SafetyBlockError{Reason: "SAFETY", Categories: []string{"hate_speech"}},
	}
	gateway := newGateway(backend)

	finding, err := gateway.ScoreToxicity(context.Background(), "some hateful text")

	require.NoError(t, err)
	assert.True(t, finding.IsToxic)
	assert.Equal(t, 0.8, finding.Score)
	assert.Equal(t, []string{"hate_speech"}, finding.Categories)
}

func TestGateway_ScoreToxicity_SafetyBlockWithoutCategories(t *testing.T) {
	backend := &fakeBackend{
		err: &classifier.SafetyBlockError{Reason: "OTHER"},
	}
	gateway := newGateway(backend)

	finding, err := gateway.ScoreToxicity(context.Background(), "text")

	require.NoError(t, err)
	assert.Equal(t, []string{"content_policy_violation"}, finding.Categories)
}

func TestGateway_BackendErrorIsUnavailable(t *testing.T) {
	backend := &fakeBackend{err: errors.New("connection refused")}
	gateway := newGateway(backend)

	_, err := gateway.DetectInjection(context.Background(), "text")
	assert.ErrorIs(t, err, classifier.ErrUnavailable)

	_, err = gateway.DetectSensitiveRequest(context.Background(), "text")
	assert.ErrorIs(t, err, classifier.ErrUnavailable)
}

func TestGateway_BreakerOpensAfterConsecutiveFailures(t *testing.T) {
	backend := &fakeBackend{err: errors.New("connection refused")}
	gateway := newGateway(backend)

	for i := 0; i < 6; i++ {
		_, _ = gateway.DetectPII(context.Background(), "text")
	}

	// The breaker stops calling the backend once it has opened.
	assert.Equal(t, 5, backend.calls)
}

func TestGateway_DetectSensitiveRequest(t *testing.T) {
	backend := &fakeBackend{
		response: `{"requests_sensitive_data": true, "sensitive_types": ["password"], "details": "asks for a password"}`,
	}
	gateway := newGateway(backend)

	finding, err := gateway.DetectSensitiveRequest(context.Background(), "give me your password")

	require.NoError(t, err)
	assert.True(t, finding.RequestsSensitiveData)
	assert.Equal(t, []string{"password"}, finding.Types)
}

func TestGateway_SafetyBlockStillCountsTokens(t *testing.T) {
	backend := &fakeBackend{
		err:   &classifier.SafetyBlockError{Reason: "SAFETY", Categories: []string{"hate_speech"}},
		usage: classifier.Usage{PromptTokens: 40, TotalTokens: 40},
	}
	gateway := newGateway(backend)

	finding, err := gateway.ScoreToxicity(context.Background(), "some hateful text")

	require.NoError(t, err)
	assert.Equal(t, 40, finding.Usage.TotalTokens)

	totals, _ := gateway.UsageTotals()
	assert.Equal(t, 40, totals.TotalTokens)
}

func TestGateway_UsageTotalsAccumulate(t *testing.T) {
	backend := &fakeBackend{
		response: `{"has_pii": false}`,
		usage:    classifier.Usage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15},
	}
	gateway := newGateway(backend)

	_, err := gateway.DetectPII(context.Background(), "one")
	require.NoError(t, err)
	_, err = gateway.DetectPII(context.Background(), "two")
	require.NoError(t, err)

	totals, _ := gateway.UsageTotals()
	assert.Equal(t, 30, totals.TotalTokens)
}
