package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/AegisGov/AegisGate/pkg/domain/feedback"
)

type createFeedbackRequest struct {
	RequestID     string `json:"request_id"`
	UserID        string `json:"user_id"`
	Rating        int    `json:"rating"`
	FalsePositive bool   `json:"false_positive"`
	Comment       string `json:"comment"`
}

type createFeedbackHandler struct {
	logger       *logrus.Logger
	feedbackRepo feedback.Repository
}

func NewCreateFeedbackHandler(logger *logrus.Logger, feedbackRepo feedback.Repository) Handler {
	return &createFeedbackHandler{
		logger:       logger,
		feedbackRepo: feedbackRepo,
	}
}

// Handle @Summary Submit feedback on a guardrail decision
// @Tags Feedback
// @Accept json
// @Produce json
// @Param feedback body createFeedbackRequest true "Feedback request body"
// @Success 201 {object} feedback.Feedback "Feedback recorded"
// @Failure 400 {object} map[string]interface{} "Invalid request data"
// @Router /api/v1/feedback [post]
func (s *createFeedbackHandler) Handle(c *fiber.Ctx) error {
	var req createFeedbackRequest
	if err := c.BodyParser(&req); err != nil {
		s.logger.WithError(err).Error("failed to bind request")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ErrInvalidJsonPayload})
	}
	if req.RequestID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "request_id is required"})
	}

	id, err := uuid.NewV6()
	if err != nil {
		s.logger.WithError(err).Error("failed to generate UUID")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to generate UUID"})
	}

	entity := &feedback.Feedback{
		ID:            id,
		RequestID:     req.RequestID,
		UserID:        req.UserID,
		Rating:        req.Rating,
		FalsePositive: req.FalsePositive,
		Comment:       req.Comment,
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.feedbackRepo.Save(c.Context(), entity); err != nil {
		s.logger.WithError(err).Error("failed to save feedback")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to save feedback"})
	}
	return c.Status(fiber.StatusCreated).JSON(entity)
}
