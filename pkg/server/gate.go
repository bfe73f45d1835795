package server

import (
	"fmt"

	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"

	"github.com/AegisGov/AegisGate/pkg/config"
	handlers "github.com/AegisGov/AegisGate/pkg/handlers/http"
	"github.com/AegisGov/AegisGate/pkg/infra/metrics"
	"github.com/AegisGov/AegisGate/pkg/middleware"
)

type (
	GateServerDI struct {
		MiddlewareTransport middleware.Transport
		HandlerTransport    handlers.HandlerTransport
		Config              *config.Config
		Logger              *logrus.Logger
		Metrics             *metrics.Registry
	}
	GateServer struct {
		*BaseServer
		middlewareTransport middleware.Transport
		handlerTransport    handlers.HandlerTransport
	}
)

func NewGateServer(di GateServerDI) *GateServer {
	return &GateServer{
		BaseServer:          NewBaseServer(di.Config, di.Logger, di.Metrics),
		middlewareTransport: di.MiddlewareTransport,
		handlerTransport:    di.HandlerTransport,
	}
}

func (s *GateServer) Run() error {
	s.setupRoutes()
	s.setupHealthCheck()
	s.setupMetricsEndpoint()

	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.logger.WithField("addr", addr).Info("starting gate server")
	return s.router.Listen(addr)
}

func (s *GateServer) setupRoutes() {
	s.router.Use(recover.New())

	v1 := s.router.Group("/api/v1")
	{
		guardrails := v1.Group("/guardrails")
		{
			auth := s.middlewareTransport.AuthMiddleware.Middleware()
			guardrails.Post("/check", auth, s.handlerTransport.CheckPromptHandler.Handle)
			guardrails.Post("/check-output", auth, s.handlerTransport.CheckOutputHandler.Handle)
			guardrails.Get("/capabilities", s.handlerTransport.CapabilitiesHandler.Handle)
		}

		agents := v1.Group("/agents")
		{
			agents.Post("", s.handlerTransport.CreateAgentHandler.Handle)
			agents.Get("", s.handlerTransport.ListAgentsHandler.Handle)
			agents.Get("/:agent_id", s.handlerTransport.GetAgentHandler.Handle)
			agents.Put("/:agent_id", s.handlerTransport.UpdateAgentHandler.Handle)
			agents.Delete("/:agent_id", s.handlerTransport.DeleteAgentHandler.Handle)

			keys := agents.Group("/:agent_id/keys")
			{
				keys.Post("", s.handlerTransport.CreateAPIKeyHandler.Handle)
				keys.Get("", s.handlerTransport.ListAPIKeysHandler.Handle)
			}
		}

		v1.Delete("/keys/:key_id", s.handlerTransport.RevokeAPIKeyHandler.Handle)

		feedback := v1.Group("/feedback")
		{
			feedback.Post("", s.handlerTransport.CreateFeedbackHandler.Handle)
			feedback.Get("/:request_id", s.handlerTransport.ListFeedbackHandler.Handle)
		}

		conversations := v1.Group("/conversations")
		{
			conversations.Get("", s.handlerTransport.ListSessionsHandler.Handle)
			conversations.Get("/:session_id", s.handlerTransport.GetConversationHandler.Handle)
		}
	}
}

func (s *GateServer) Shutdown() error {
	return s.router.Shutdown()
}
