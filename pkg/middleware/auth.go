package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/AegisGov/AegisGate/pkg/app/apikey"
	"github.com/AegisGov/AegisGate/pkg/common"
)

const authHeader = "X-Gov-API-Key"

type authMiddleware struct {
	logger    *logrus.Logger
	keyFinder apikey.Finder
	required  bool
}

// NewAuthMiddleware validates the platform API key header. When required is
// false requests without a key pass through, which keeps local development
// working before any key has been issued.
func NewAuthMiddleware(logger *logrus.Logger, keyFinder apikey.Finder, required bool) Middleware {
	return &authMiddleware{
		logger:    logger,
		keyFinder: keyFinder,
		required:  required,
	}
}

func (m *authMiddleware) Middleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		plaintext := ctx.Get(authHeader)
		if plaintext == "" {
			if !m.required {
				return ctx.Next()
			}
			m.logger.Debug("no api key provided")
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "API key required"})
		}

		key, err := m.keyFinder.Find(ctx.Context(), plaintext)
		if err != nil {
			m.logger.WithError(err).Debug("error retrieving apikey")
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid API key"})
		}

		if !key.IsValid() {
			m.logger.Debug("invalid API key")
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid API key"})
		}

		ctx.Locals(common.ApiKeyIdContextKey, key.ID.String())
		ctx.Locals(common.AgentContextKey, key.AgentID.String())

		return ctx.Next()
	}
}
