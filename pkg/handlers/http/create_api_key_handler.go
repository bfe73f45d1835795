package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	domainErrors "github.com/AegisGov/AegisGate/pkg/domain"
	"github.com/AegisGov/AegisGate/pkg/domain/agent"
	domain "github.com/AegisGov/AegisGate/pkg/domain/apikey"
)

type createAPIKeyRequest struct {
	Name      string     `json:"name"`
	ExpiresAt *time.Time `json:"expires_at"`
}

type createAPIKeyHandler struct {
	logger     *logrus.Logger
	agentRepo  agent.Repository
	apiKeyRepo domain.Repository
}

func NewCreateAPIKeyHandler(logger *logrus.Logger, agentRepo agent.Repository, apiKeyRepo domain.Repository) Handler {
	return &createAPIKeyHandler{
		logger:     logger,
		agentRepo:  agentRepo,
		apiKeyRepo: apiKeyRepo,
	}
}

// Handle @Summary Create a new API key
// @Description Issues an API key for the agent. The plaintext key is returned once and never stored.
// @Tags API Keys
// @Accept json
// @Produce json
// @Param agent_id path string true "Agent ID"
// @Param api_key body createAPIKeyRequest true "API key request body"
// @Success 201 {object} map[string]interface{} "API key created successfully"
// @Failure 400 {object} map[string]interface{} "Invalid request data"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /api/v1/agents/{agent_id}/keys [post]
func (s *createAPIKeyHandler) Handle(c *fiber.Ctx) error {
	agentID, err := uuid.Parse(c.Params("agent_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid agent ID"})
	}

	var req createAPIKeyRequest
	if err := c.BodyParser(&req); err != nil {
		s.logger.WithError(err).Error("failed to bind request")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ErrInvalidJsonPayload})
	}

	if _, err := s.agentRepo.Get(c.Context(), agentID); err != nil {
		if domainErrors.IsNotFoundError(err) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "agent not found"})
		}
		s.logger.WithError(err).Error("failed to fetch agent")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch agent"})
	}

	plaintext, prefix, err := domain.GenerateKey()
	if err != nil {
		s.logger.WithError(err).Error("failed to generate API key")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to generate API key"})
	}

	id, err := uuid.NewV6()
	if err != nil {
		s.logger.WithError(err).Error("failed to generate UUID")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to generate UUID"})
	}

	apiKey := &domain.APIKey{
		ID:        id,
		Name:      req.Name,
		KeyHash:   domain.HashKey(plaintext),
		Prefix:    prefix,
		AgentID:   agentID,
		Active:    true,
		ExpiresAt: req.ExpiresAt,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.apiKeyRepo.Save(c.Context(), apiKey); err != nil {
		s.logger.WithError(err).Error("failed to create API key")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create API key"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"api_key": apiKey,
		"key":     plaintext,
	})
}
