package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/AegisGov/AegisGate/pkg/domain/conversation"
)

type listSessionsHandler struct {
	logger           *logrus.Logger
	conversationRepo conversation.Repository
}

func NewListSessionsHandler(logger *logrus.Logger, conversationRepo conversation.Repository) Handler {
	return &listSessionsHandler{
		logger:           logger,
		conversationRepo: conversationRepo,
	}
}

// Handle @Summary List conversation sessions
// @Tags Conversations
// @Produce json
// @Param agent_id query string false "Filter by agent ID"
// @Param limit query int false "Maximum sessions to return"
// @Success 200 {array} string "Session IDs"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /api/v1/conversations [get]
func (s *listSessionsHandler) Handle(c *fiber.Ctx) error {
	agentID := c.Query("agent_id")
	limit := c.QueryInt("limit", 50)

	sessions, err := s.conversationRepo.Sessions(c.Context(), agentID, limit)
	if err != nil {
		s.logger.WithError(err).Error("failed to list sessions")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to list sessions"})
	}
	return c.Status(fiber.StatusOK).JSON(sessions)
}
