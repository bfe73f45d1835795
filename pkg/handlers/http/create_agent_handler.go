package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/AegisGov/AegisGate/pkg/domain"
	"github.com/AegisGov/AegisGate/pkg/domain/agent"
)

type createAgentRequest struct {
	Name              string   `json:"name"`
	Description       string   `json:"description"`
	Department        string   `json:"department"`
	OwnerEmail        string   `json:"owner_email"`
	GuardrailPolicies []string `json:"guardrail_policies"`
}

type createAgentHandler struct {
	logger    *logrus.Logger
	agentRepo agent.Repository
}

func NewCreateAgentHandler(logger *logrus.Logger, agentRepo agent.Repository) Handler {
	return &createAgentHandler{
		logger:    logger,
		agentRepo: agentRepo,
	}
}

// Handle @Summary Register a new agent
// @Description Registers an AI agent so its traffic can be checked and audited
// @Tags Agents
// @Accept json
// @Produce json
// @Param agent body createAgentRequest true "Agent request body"
// @Success 201 {object} agent.Agent "Agent created successfully"
// @Failure 400 {object} map[string]interface{} "Invalid request data"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /api/v1/agents [post]
func (s *createAgentHandler) Handle(c *fiber.Ctx) error {
	var req createAgentRequest
	if err := c.BodyParser(&req); err != nil {
		s.logger.WithError(err).Error("failed to bind request")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ErrInvalidJsonPayload})
	}
	if req.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "name is required"})
	}

	id, err := uuid.NewV6()
	if err != nil {
		s.logger.WithError(err).Error("failed to generate UUID")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to generate UUID"})
	}

	now := time.Now().UTC()
	entity := &agent.Agent{
		ID:                id,
		Name:              req.Name,
		Description:       req.Description,
		Department:        req.Department,
		OwnerEmail:        req.OwnerEmail,
		GuardrailPolicies: domain.PoliciesJSON(req.GuardrailPolicies),
		Active:            true,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.agentRepo.Save(c.Context(), entity); err != nil {
		s.logger.WithError(err).Error("failed to create agent")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create agent"})
	}

	return c.Status(fiber.StatusCreated).JSON(entity)
}
