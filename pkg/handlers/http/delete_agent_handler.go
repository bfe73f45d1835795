package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/AegisGov/AegisGate/pkg/domain"
	"github.com/AegisGov/AegisGate/pkg/domain/agent"
)

type deleteAgentHandler struct {
	logger    *logrus.Logger
	agentRepo agent.Repository
}

func NewDeleteAgentHandler(logger *logrus.Logger, agentRepo agent.Repository) Handler {
	return &deleteAgentHandler{
		logger:    logger,
		agentRepo: agentRepo,
	}
}

// Handle @Summary Delete an agent
// @Tags Agents
// @Param agent_id path string true "Agent ID"
// @Success 204 "Agent deleted"
// @Failure 404 {object} map[string]interface{} "Agent not found"
// @Router /api/v1/agents/{agent_id} [delete]
func (s *deleteAgentHandler) Handle(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("agent_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid agent ID"})
	}

	if err := s.agentRepo.Delete(c.Context(), id); err != nil {
		if domain.IsNotFoundError(err) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "agent not found"})
		}
		s.logger.WithError(err).Error("failed to delete agent")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to delete agent"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
