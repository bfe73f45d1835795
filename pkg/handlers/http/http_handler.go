package http

import "github.com/gofiber/fiber/v2"

const ErrInvalidJsonPayload = "invalid JSON payload"

type Handler interface {
	Handle(ctx *fiber.Ctx) error
}

type HandlerTransport struct {
	// Guardrails
	CheckPromptHandler  Handler
	CheckOutputHandler  Handler
	CapabilitiesHandler Handler

	// Agent
	CreateAgentHandler Handler
	ListAgentsHandler  Handler
	GetAgentHandler    Handler
	UpdateAgentHandler Handler
	DeleteAgentHandler Handler

	// APIKey
	CreateAPIKeyHandler Handler
	ListAPIKeysHandler  Handler
	RevokeAPIKeyHandler Handler

	// Feedback
	CreateFeedbackHandler Handler
	ListFeedbackHandler   Handler

	// Conversation
	GetConversationHandler Handler
	ListSessionsHandler    Handler
}
