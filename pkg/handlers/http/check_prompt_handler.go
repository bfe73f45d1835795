package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/AegisGov/AegisGate/pkg/app/check"
	"github.com/AegisGov/AegisGate/pkg/common"
	"github.com/AegisGov/AegisGate/pkg/domain/guardrail"
)

type checkPromptHandler struct {
	logger  *logrus.Logger
	checker *check.Checker
}

func NewCheckPromptHandler(logger *logrus.Logger, checker *check.Checker) Handler {
	return &checkPromptHandler{
		logger:  logger,
		checker: checker,
	}
}

// Handle @Summary Run guardrail checks on a prompt
// @Description Evaluates the prompt against the requested guardrails and returns per-check results
// @Tags Guardrails
// @Accept json
// @Produce json
// @Param request body guardrail.CheckRequest true "Check request body"
// @Success 200 {object} guardrail.CheckResponse "Evaluation completed"
// @Failure 400 {object} map[string]interface{} "Invalid request data"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /api/v1/guardrails/check [post]
func (s *checkPromptHandler) Handle(c *fiber.Ctx) error {
	var req guardrail.CheckRequest
	if err := c.BodyParser(&req); err != nil {
		s.logger.WithError(err).Error("failed to bind request")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ErrInvalidJsonPayload})
	}
	if req.SessionID == "" {
		req.SessionID = c.Get(common.SessionIDHeader)
	}

	response, err := s.checker.CheckPrompt(c.Context(), req)
	if err != nil {
		var validationErr *guardrail.ValidationError
		if errors.As(err, &validationErr) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": validationErr.Error()})
		}
		s.logger.WithError(err).Error("guardrail check failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "guardrail check failed"})
	}

	return c.Status(fiber.StatusOK).JSON(response)
}
