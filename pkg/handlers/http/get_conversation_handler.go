package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/AegisGov/AegisGate/pkg/domain/conversation"
)

type getConversationHandler struct {
	logger           *logrus.Logger
	conversationRepo conversation.Repository
}

func NewGetConversationHandler(logger *logrus.Logger, conversationRepo conversation.Repository) Handler {
	return &getConversationHandler{
		logger:           logger,
		conversationRepo: conversationRepo,
	}
}

// Handle @Summary Replay a conversation session
// @Tags Conversations
// @Produce json
// @Param session_id path string true "Session ID"
// @Param limit query int false "Maximum messages to return"
// @Success 200 {array} conversation.Message "Messages"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /api/v1/conversations/{session_id} [get]
func (s *getConversationHandler) Handle(c *fiber.Ctx) error {
	sessionID := c.Params("session_id")
	limit := c.QueryInt("limit", 100)

	messages, err := s.conversationRepo.ListBySession(c.Context(), sessionID, limit)
	if err != nil {
		s.logger.WithError(err).Error("failed to fetch conversation")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch conversation"})
	}
	return c.Status(fiber.StatusOK).JSON(messages)
}
