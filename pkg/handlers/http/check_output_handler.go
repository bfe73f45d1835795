package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/AegisGov/AegisGate/pkg/app/check"
	"github.com/AegisGov/AegisGate/pkg/common"
	"github.com/AegisGov/AegisGate/pkg/domain/guardrail"
)

type checkOutputHandler struct {
	logger  *logrus.Logger
	checker *check.OutputChecker
}

func NewCheckOutputHandler(logger *logrus.Logger, checker *check.OutputChecker) Handler {
	return &checkOutputHandler{
		logger:  logger,
		checker: checker,
	}
}

// Handle @Summary Vet a generated agent response
// @Description Runs output-direction guardrails and returns the response or a blocked replacement
// @Tags Guardrails
// @Accept json
// @Produce json
// @Param request body guardrail.OutputCheckRequest true "Output check request body"
// @Success 200 {object} guardrail.OutputCheckResponse "Evaluation completed"
// @Failure 400 {object} map[string]interface{} "Invalid request data"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /api/v1/guardrails/check-output [post]
func (s *checkOutputHandler) Handle(c *fiber.Ctx) error {
	var req guardrail.OutputCheckRequest
	if err := c.BodyParser(&req); err != nil {
		s.logger.WithError(err).Error("failed to bind request")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ErrInvalidJsonPayload})
	}
	if req.SessionID == "" {
		req.SessionID = c.Get(common.SessionIDHeader)
	}

	response, err := s.checker.CheckOutput(c.Context(), req)
	if err != nil {
		var validationErr *guardrail.ValidationError
		if errors.As(err, &validationErr) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": validationErr.Error()})
		}
		s.logger.WithError(err).Error("output check failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "output check failed"})
	}

	return c.Status(fiber.StatusOK).JSON(response)
}
