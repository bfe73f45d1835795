package mocks

import (
	"context"
	"fmt"

	"github.com/stretchr/testify/mock"

	"github.com/AegisGov/AegisGate/pkg/domain/apikey"
)

type Finder struct {
	mock.Mock
}

func (m *Finder) Find(ctx context.Context, plaintext string) (*apikey.APIKey, error) {
	args := m.Called(ctx, plaintext)
	key, ok := args.Get(0).(*apikey.APIKey)
	if !ok && args.Get(0) != nil {
		return nil, fmt.Errorf("expected *apikey.APIKey, got %T", args.Get(0))
	}
	return key, args.Error(1)
}
