package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/AegisGov/AegisGate/pkg/domain/agent"
)

type listAgentsHandler struct {
	logger    *logrus.Logger
	agentRepo agent.Repository
}

func NewListAgentsHandler(logger *logrus.Logger, agentRepo agent.Repository) Handler {
	return &listAgentsHandler{
		logger:    logger,
		agentRepo: agentRepo,
	}
}

// Handle @Summary List registered agents
// @Tags Agents
// @Produce json
// @Success 200 {array} agent.Agent "Agents"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /api/v1/agents [get]
func (s *listAgentsHandler) Handle(c *fiber.Ctx) error {
	agents, err := s.agentRepo.List(c.Context())
	if err != nil {
		s.logger.WithError(err).Error("failed to list agents")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to list agents"})
	}
	return c.Status(fiber.StatusOK).JSON(agents)
}
