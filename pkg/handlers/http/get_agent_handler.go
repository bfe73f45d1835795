package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/AegisGov/AegisGate/pkg/domain"
	"github.com/AegisGov/AegisGate/pkg/domain/agent"
)

type getAgentHandler struct {
	logger    *logrus.Logger
	agentRepo agent.Repository
}

func NewGetAgentHandler(logger *logrus.Logger, agentRepo agent.Repository) Handler {
	return &getAgentHandler{
		logger:    logger,
		agentRepo: agentRepo,
	}
}

// Handle @Summary Get an agent
// @Tags Agents
// @Produce json
// @Param agent_id path string true "Agent ID"
// @Success 200 {object} agent.Agent "Agent"
// @Failure 404 {object} map[string]interface{} "Agent not found"
// @Router /api/v1/agents/{agent_id} [get]
func (s *getAgentHandler) Handle(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("agent_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid agent ID"})
	}

	entity, err := s.agentRepo.Get(c.Context(), id)
	if err != nil {
		if domain.IsNotFoundError(err) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "agent not found"})
		}
		s.logger.WithError(err).Error("failed to fetch agent")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch agent"})
	}
	return c.Status(fiber.StatusOK).JSON(entity)
}
