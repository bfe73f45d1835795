package http_test

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/AegisGov/AegisGate/mocks"
	"github.com/AegisGov/AegisGate/pkg/domain"
	"github.com/AegisGov/AegisGate/pkg/domain/agent"
	handlers "github.com/AegisGov/AegisGate/pkg/handlers/http"
)

func TestCreateAgentHandler_CreatesAgent(t *testing.T) {
	repo := &mocks.AgentRepository{}
	repo.On("Save", mock.Anything, mock.MatchedBy(func(entity *agent.Agent) bool {
		return entity.Name == "hr-assistant" && entity.Active
	})).Return(nil)

	app := fiber.New()
	app.Post("/api/v1/agents", handlers.NewCreateAgentHandler(logrus.New(), repo).Handle)

	body, _ := json.Marshal(map[string]interface{}{
		"name":               "hr-assistant",
		"department":         "hr",
		"owner_email":        "owner@corp.io",
		"guardrail_policies": []string{"pii_detection", "toxicity"},
	})
	req := httptest.NewRequest("POST", "/api/v1/agents", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var created agent.Agent
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	assert.Equal(t, "hr-assistant", created.Name)
	assert.NotEqual(t, uuid.Nil, created.ID)
	repo.AssertExpectations(t)
}

func TestCreateAgentHandler_NameRequired(t *testing.T) {
	repo := &mocks.AgentRepository{}
	app := fiber.New()
	app.Post("/api/v1/agents", handlers.NewCreateAgentHandler(logrus.New(), repo).Handle)

	body, _ := json.Marshal(map[string]interface{}{"department": "hr"})
	req := httptest.NewRequest("POST", "/api/v1/agents", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	repo.AssertNotCalled(t, "Save")
}

func TestGetAgentHandler_NotFound(t *testing.T) {
	id := uuid.New()
	repo := &mocks.AgentRepository{}
	repo.On("Get", mock.Anything, id).Return(nil, domain.NewNotFoundError("agent", id))

	app := fiber.New()
	app.Get("/api/v1/agents/:agent_id", handlers.NewGetAgentHandler(logrus.New(), repo).Handle)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/agents/"+id.String(), nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestGetAgentHandler_InvalidID(t *testing.T) {
	repo := &mocks.AgentRepository{}
	app := fiber.New()
	app.Get("/api/v1/agents/:agent_id", handlers.NewGetAgentHandler(logrus.New(), repo).Handle)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/agents/not-a-uuid", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	repo.AssertNotCalled(t, "Get")
}
