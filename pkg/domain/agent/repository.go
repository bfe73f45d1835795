package agent

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Save(ctx context.Context, agent *Agent) error
	Get(ctx context.Context, id uuid.UUID) (*Agent, error)
	List(ctx context.Context) ([]Agent, error)
	Update(ctx context.Context, agent *Agent) error
	Delete(ctx context.Context, id uuid.UUID) error
}
