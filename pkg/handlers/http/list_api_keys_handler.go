package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	domain "github.com/AegisGov/AegisGate/pkg/domain/apikey"
)

type listAPIKeysHandler struct {
	logger     *logrus.Logger
	apiKeyRepo domain.Repository
}

func NewListAPIKeysHandler(logger *logrus.Logger, apiKeyRepo domain.Repository) Handler {
	return &listAPIKeysHandler{
		logger:     logger,
		apiKeyRepo: apiKeyRepo,
	}
}

// Handle @Summary List API keys for an agent
// @Description Lists key metadata. Plaintext keys are never returned after creation.
// @Tags API Keys
// @Produce json
// @Param agent_id path string true "Agent ID"
// @Success 200 {array} apikey.APIKey "API keys"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /api/v1/agents/{agent_id}/keys [get]
func (s *listAPIKeysHandler) Handle(c *fiber.Ctx) error {
	agentID, err := uuid.Parse(c.Params("agent_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid agent ID"})
	}

	keys, err := s.apiKeyRepo.ListByAgent(c.Context(), agentID)
	if err != nil {
		s.logger.WithError(err).Error("failed to list API keys")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to list API keys"})
	}
	return c.Status(fiber.StatusOK).JSON(keys)
}
