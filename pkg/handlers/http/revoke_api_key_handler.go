package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	domainErrors "github.com/AegisGov/AegisGate/pkg/domain"
	domain "github.com/AegisGov/AegisGate/pkg/domain/apikey"
)

type revokeAPIKeyHandler struct {
	logger     *logrus.Logger
	apiKeyRepo domain.Repository
}

func NewRevokeAPIKeyHandler(logger *logrus.Logger, apiKeyRepo domain.Repository) Handler {
	return &revokeAPIKeyHandler{
		logger:     logger,
		apiKeyRepo: apiKeyRepo,
	}
}

// Handle @Summary Revoke an API key
// @Description Deactivates the key. Cached entries expire within the cache TTL.
// @Tags API Keys
// @Param key_id path string true "API key ID"
// @Success 204 "API key revoked"
// @Failure 404 {object} map[string]interface{} "API key not found"
// @Router /api/v1/keys/{key_id} [delete]
func (s *revokeAPIKeyHandler) Handle(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("key_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid API key ID"})
	}

	if err := s.apiKeyRepo.Revoke(c.Context(), id); err != nil {
		if domainErrors.IsNotFoundError(err) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "API key not found"})
		}
		s.logger.WithError(err).Error("failed to revoke API key")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to revoke API key"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
