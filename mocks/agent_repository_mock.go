package mocks

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/AegisGov/AegisGate/pkg/domain/agent"
)

type AgentRepository struct {
	mock.Mock
}

func (m *AgentRepository) Save(ctx context.Context, entity *agent.Agent) error {
	args := m.Called(ctx, entity)
	return args.Error(0)
}

func (m *AgentRepository) Get(ctx context.Context, id uuid.UUID) (*agent.Agent, error) {
	args := m.Called(ctx, id)
	entity, ok := args.Get(0).(*agent.Agent)
	if !ok && args.Get(0) != nil {
		return nil, fmt.Errorf("expected *agent.Agent, got %T", args.Get(0))
	}
	return entity, args.Error(1)
}

func (m *AgentRepository) List(ctx context.Context) ([]agent.Agent, error) {
	args := m.Called(ctx)
	agents, ok := args.Get(0).([]agent.Agent)
	if !ok && args.Get(0) != nil {
		return nil, fmt.Errorf("expected []agent.Agent, got %T", args.Get(0))
	}
	return agents, args.Error(1)
}

func (m *AgentRepository) Update(ctx context.Context, entity *agent.Agent) error {
	args := m.Called(ctx, entity)
	return args.Error(0)
}

func (m *AgentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
