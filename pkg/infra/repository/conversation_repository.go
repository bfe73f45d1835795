package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/AegisGov/AegisGate/pkg/domain/conversation"
)

type ConversationRepository struct {
	db *gorm.DB
}

func NewConversationRepository(db *gorm.DB) conversation.Repository {
	return &ConversationRepository{
		db: db,
	}
}

func (r *ConversationRepository) Save(ctx context.Context, message *conversation.Message) error {
	return r.db.WithContext(ctx).Create(message).Error
}

func (r *ConversationRepository) ListBySession(ctx context.Context, sessionID string, limit int) ([]conversation.Message, error) {
	if limit <= 0 {
		limit = 100
	}
	var messages []conversation.Message
	if err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at ASC").
		Limit(limit).
		Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *ConversationRepository) Sessions(ctx context.Context, agentID string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 50
	}
	var sessions []string
	query := r.db.WithContext(ctx).
		Model(&conversation.Message{}).
		Distinct("session_id").
		Limit(limit)
	if agentID != "" {
		query = query.Where("agent_id = ?", agentID)
	}
	if err := query.Pluck("session_id", &sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}
