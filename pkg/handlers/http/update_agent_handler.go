package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/AegisGov/AegisGate/pkg/domain"
	"github.com/AegisGov/AegisGate/pkg/domain/agent"
)

type updateAgentRequest struct {
	Description       *string  `json:"description"`
	Department        *string  `json:"department"`
	OwnerEmail        *string  `json:"owner_email"`
	GuardrailPolicies []string `json:"guardrail_policies"`
	Active            *bool    `json:"active"`
}

type updateAgentHandler struct {
	logger    *logrus.Logger
	agentRepo agent.Repository
}

func NewUpdateAgentHandler(logger *logrus.Logger, agentRepo agent.Repository) Handler {
	return &updateAgentHandler{
		logger:    logger,
		agentRepo: agentRepo,
	}
}

// Handle @Summary Update an agent
// @Tags Agents
// @Accept json
// @Produce json
// @Param agent_id path string true "Agent ID"
// @Param agent body updateAgentRequest true "Fields to update"
// @Success 200 {object} agent.Agent "Agent updated"
// @Failure 404 {object} map[string]interface{} "Agent not found"
// @Router /api/v1/agents/{agent_id} [put]
func (s *updateAgentHandler) Handle(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("agent_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid agent ID"})
	}

	var req updateAgentRequest
	if err := c.BodyParser(&req); err != nil {
		s.logger.WithError(err).Error("failed to bind request")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ErrInvalidJsonPayload})
	}

	entity, err := s.agentRepo.Get(c.Context(), id)
	if err != nil {
		if domain.IsNotFoundError(err) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "agent not found"})
		}
		s.logger.WithError(err).Error("failed to fetch agent")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch agent"})
	}

	if req.Description != nil {
		entity.Description = *req.Description
	}
	if req.Department != nil {
		entity.Department = *req.Department
	}
	if req.OwnerEmail != nil {
		entity.OwnerEmail = *req.OwnerEmail
	}
	if req.GuardrailPolicies != nil {
		entity.GuardrailPolicies = domain.PoliciesJSON(req.GuardrailPolicies)
	}
	if req.Active != nil {
		entity.Active = *req.Active
	}
	entity.UpdatedAt = time.Now().UTC()

	if err := s.agentRepo.Update(c.Context(), entity); err != nil {
		s.logger.WithError(err).Error("failed to update agent")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to update agent"})
	}
	return c.Status(fiber.StatusOK).JSON(entity)
}
