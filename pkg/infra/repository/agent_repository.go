package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/AegisGov/AegisGate/pkg/domain"
	"github.com/AegisGov/AegisGate/pkg/domain/agent"
)

type AgentRepository struct {
	db *gorm.DB
}

func NewAgentRepository(db *gorm.DB) agent.Repository {
	return &AgentRepository{
		db: db,
	}
}

func (r *AgentRepository) Save(ctx context.Context, entity *agent.Agent) error {
	return r.db.WithContext(ctx).Create(entity).Error
}

func (r *AgentRepository) Get(ctx context.Context, id uuid.UUID) (*agent.Agent, error) {
	entity := new(agent.Agent)
	if err := r.db.WithContext(ctx).First(entity, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("agent", id)
		}
		return nil, err
	}
	return entity, nil
}

func (r *AgentRepository) List(ctx context.Context) ([]agent.Agent, error) {
	var agents []agent.Agent
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&agents).Error; err != nil {
		return nil, err
	}
	return agents, nil
}

func (r *AgentRepository) Update(ctx context.Context, entity *agent.Agent) error {
	result := r.db.WithContext(ctx).
		Model(&agent.Agent{}).
		Where("id = ?", entity.ID).
		Updates(entity)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("agent", entity.ID)
	}
	return nil
}

func (r *AgentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&agent.Agent{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("agent", id)
	}
	return nil
}
