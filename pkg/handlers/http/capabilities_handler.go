package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/AegisGov/AegisGate/pkg/domain/guardrail"
	"github.com/AegisGov/AegisGate/pkg/domain/guardrail/classifier"
)

type capabilitiesHandler struct {
	logger  *logrus.Logger
	gateway *classifier.Gateway
}

func NewCapabilitiesHandler(logger *logrus.Logger, gateway *classifier.Gateway) Handler {
	return &capabilitiesHandler{
		logger:  logger,
		gateway: gateway,
	}
}

// Handle @Summary List guardrail capabilities
// @Description Reports which guardrail kinds are implemented and whether the classifier backend is live
// @Tags Guardrails
// @Produce json
// @Success 200 {object} map[string]interface{} "Capabilities"
// @Router /api/v1/guardrails/capabilities [get]
func (s *capabilitiesHandler) Handle(c *fiber.Ctx) error {
	kinds := make(map[string]bool, len(guardrail.AllKinds()))
	for _, kind := range guardrail.AllKinds() {
		kinds[string(kind)] = kind.Implemented()
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"guardrails":           kinds,
		"classifier_available": s.gateway.Available(),
		"model":                s.gateway.ModelName(),
	})
}
