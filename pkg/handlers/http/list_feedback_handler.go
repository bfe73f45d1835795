package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/AegisGov/AegisGate/pkg/domain/feedback"
)

type listFeedbackHandler struct {
	logger       *logrus.Logger
	feedbackRepo feedback.Repository
}

func NewListFeedbackHandler(logger *logrus.Logger, feedbackRepo feedback.Repository) Handler {
	return &listFeedbackHandler{
		logger:       logger,
		feedbackRepo: feedbackRepo,
	}
}

// Handle @Summary List feedback for a guardrail request
// @Tags Feedback
// @Produce json
// @Param request_id path string true "Guardrail request ID"
// @Success 200 {array} feedback.Feedback "Feedback entries"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /api/v1/feedback/{request_id} [get]
func (s *listFeedbackHandler) Handle(c *fiber.Ctx) error {
	requestID := c.Params("request_id")
	entries, err := s.feedbackRepo.ListByRequest(c.Context(), requestID)
	if err != nil {
		s.logger.WithError(err).Error("failed to list feedback")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to list feedback"})
	}
	return c.Status(fiber.StatusOK).JSON(entries)
}
