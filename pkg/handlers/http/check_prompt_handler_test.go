package http_test

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AegisGov/AegisGate/mocks"
	"github.com/AegisGov/AegisGate/pkg/app/check"
	"github.com/AegisGov/AegisGate/pkg/domain/guardrail"
	"github.com/AegisGov/AegisGate/pkg/domain/guardrail/classifier"
	handlers "github.com/AegisGov/AegisGate/pkg/handlers/http"
)

func newCheckPromptApp() (*fiber.App, *mocks.RecordingSink) {
	logger := logrus.New()
	sink := &mocks.RecordingSink{}
	gateway := classifier.NewGateway(nil, time.Second, logger, nil)
	checker := check.NewChecker(gateway, sink, nil, logger, nil, 32768, false)
	app := fiber.New()
	app.Post("/api/v1/guardrails/check", handlers.NewCheckPromptHandler(logger, checker).Handle)
	return app, sink
}

func TestCheckPromptHandler_BlocksPII(t *testing.T) {
	app, sink := newCheckPromptApp()

	body, _ := json.Marshal(map[string]interface{}{
		"prompt":     "contact me at jane@corp.io",
		"agent_id":   "hr-assistant",
		"guardrails": []string{"pii_detection"},
	})
	req := httptest.NewRequest("POST", "/api/v1/guardrails/check", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result guardrail.CheckResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, guardrail.StatusBlocked, result.OverallStatus)
	assert.Equal(t, "hr-assistant", result.AgentID)
	require.NotNil(t, result.SafePrompt)
	assert.Equal(t, "contact me at [REDACTED_EMAIL]", *result.SafePrompt)
	assert.Len(t, sink.Records(), 1)
}

func TestCheckPromptHandler_EmptyPromptIs422(t *testing.T) {
	app, _ := newCheckPromptApp()

	body, _ := json.Marshal(map[string]interface{}{"prompt": ""})
	req := httptest.NewRequest("POST", "/api/v1/guardrails/check", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	var payload map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.Equal(t, "prompt must not be empty", payload["error"])
}

func TestCheckPromptHandler_MalformedBodyIs400(t *testing.T) {
	app, _ := newCheckPromptApp()

	req := httptest.NewRequest("POST", "/api/v1/guardrails/check", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
