package guardrail_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AegisGov/AegisGate/pkg/domain/guardrail"
)

func TestMergeStatus_TakesWorst(t *testing.T) {
	assert.Equal(t, guardrail.StatusPassed,
		guardrail.MergeStatus(guardrail.StatusPassed, guardrail.StatusPassed))
	assert.Equal(t, guardrail.StatusFlagged,
		guardrail.MergeStatus(guardrail.StatusPassed, guardrail.StatusFlagged))
	assert.Equal(t, guardrail.StatusBlocked,
		guardrail.MergeStatus(guardrail.StatusFlagged, guardrail.StatusBlocked))
	assert.Equal(t, guardrail.StatusBlocked,
		guardrail.MergeStatus(guardrail.StatusBlocked, guardrail.StatusPassed))
}

func TestKind_Implemented(t *testing.T) {
	assert.True(t, guardrail.KindPIIDetection.Implemented())
	assert.True(t, guardrail.KindToxicity.Implemented())
	assert.False(t, guardrail.KindHallucination.Implemented())
	assert.False(t, guardrail.Kind("made_up").Implemented())
}

func TestTokenUsage_Add(t *testing.T) {
	usage := &guardrail.TokenUsage{}
	usage.Add(100, 20, 120, 0.001)
	usage.Add(50, 10, 60, 0.0005)

	assert.Equal(t, 150, usage.PromptTokens)
	assert.Equal(t, 30, usage.CompletionTokens)
	assert.Equal(t, 180, usage.TotalTokens)
	assert.InDelta(t, 0.0015, usage.EstimatedCost, 1e-9)
}
