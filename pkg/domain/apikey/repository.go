package apikey

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Save(ctx context.Context, key *APIKey) error
	GetByHash(ctx context.Context, keyHash string) (*APIKey, error)
	ListByAgent(ctx context.Context, agentID uuid.UUID) ([]APIKey, error)
	Revoke(ctx context.Context, id uuid.UUID) error
	TouchLastUsed(ctx context.Context, id uuid.UUID) error
}
