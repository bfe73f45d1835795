// Package conversation records prompt/response exchanges per session so
// reviewers can replay what an agent was asked and how the guardrails ruled.
package conversation

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/AegisGov/AegisGate/pkg/domain"
)

type Message struct {
	ID        uuid.UUID           `json:"id" gorm:"type:uuid;primaryKey"`
	SessionID string              `json:"session_id" gorm:"index"`
	AgentID   string              `json:"agent_id" gorm:"index"`
	UserID    string              `json:"user_id"`
	Role      string              `json:"role"`
	Content   string              `json:"content"`
	Status    string              `json:"status"`
	Metadata  domain.MetadataJSON `json:"metadata" gorm:"type:jsonb"`
	CreatedAt time.Time           `json:"created_at"`
}

func (m Message) TableName() string {
	return "public.conversation_messages"
}

type Repository interface {
	Save(ctx context.Context, message *Message) error
	ListBySession(ctx context.Context, sessionID string, limit int) ([]Message, error)
	Sessions(ctx context.Context, agentID string, limit int) ([]string, error)
}
