package apikey_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/AegisGov/AegisGate/mocks"
	appapikey "github.com/AegisGov/AegisGate/pkg/app/apikey"
	domain "github.com/AegisGov/AegisGate/pkg/domain/apikey"
)

func TestFinder_ResolvesThroughRepository(t *testing.T) {
	plaintext := "gov_abc123"
	hash := domain.HashKey(plaintext)
	stored := &domain.APIKey{
		ID:      uuid.New(),
		AgentID: uuid.New(),
		KeyHash: hash,
		Active:  true,
	}

	repo := &mocks.ApiKeyRepository{}
	repo.On("GetByHash", mock.Anything, hash).Return(stored, nil)
	repo.On("TouchLastUsed", mock.Anything, stored.ID).Return(nil)

	finder := appapikey.NewFinder(repo, nil, time.Minute, logrus.New())

	found, err := finder.Find(context.Background(), plaintext)

	require.NoError(t, err)
	assert.Equal(t, stored.ID, found.ID)
	repo.AssertExpectations(t)
}

func TestFinder_UnknownKey(t *testing.T) {
	plaintext := "gov_unknown"
	hash := domain.HashKey(plaintext)

	repo := &mocks.ApiKeyRepository{}
	repo.On("GetByHash", mock.Anything, hash).Return(nil, assert.AnError)

	finder := appapikey.NewFinder(repo, nil, time.Minute, logrus.New())

	_, err := finder.Find(context.Background(), plaintext)

	assert.Error(t, err)
	repo.AssertNotCalled(t, "TouchLastUsed")
}
