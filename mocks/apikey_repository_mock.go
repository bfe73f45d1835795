package mocks

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/AegisGov/AegisGate/pkg/domain/apikey"
)

type ApiKeyRepository struct {
	mock.Mock
}

func (m *ApiKeyRepository) Save(ctx context.Context, key *apikey.APIKey) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *ApiKeyRepository) GetByHash(ctx context.Context, keyHash string) (*apikey.APIKey, error) {
	args := m.Called(ctx, keyHash)
	key, ok := args.Get(0).(*apikey.APIKey)
	if !ok && args.Get(0) != nil {
		return nil, fmt.Errorf("expected *apikey.APIKey, got %T", args.Get(0))
	}
	return key, args.Error(1)
}

func (m *ApiKeyRepository) ListByAgent(ctx context.Context, agentID uuid.UUID) ([]apikey.APIKey, error) {
	args := m.Called(ctx, agentID)
	keys, ok := args.Get(0).([]apikey.APIKey)
	if !ok && args.Get(0) != nil {
		return nil, fmt.Errorf("expected []apikey.APIKey, got %T", args.Get(0))
	}
	return keys, args.Error(1)
}

func (m *ApiKeyRepository) Revoke(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *ApiKeyRepository) TouchLastUsed(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
