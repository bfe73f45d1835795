package common

type contextKey string

const (
	ApiKeyIdContextKey contextKey = "api_key_id"
	AgentContextKey    contextKey = "agent_id"
)
