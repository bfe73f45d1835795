package apikey

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/AegisGov/AegisGate/pkg/common"
	domain "github.com/AegisGov/AegisGate/pkg/domain/apikey"
	"github.com/AegisGov/AegisGate/pkg/infra/cache"
)

//go:generate mockery --name=Finder --dir=. --output=./mocks --filename=apikey_finder_mock.go --case=underscore --with-expecter
type Finder interface {
	// Find resolves a plaintext API key to its stored entity, or an error
	// when the key is unknown.
	Find(ctx context.Context, plaintext string) (*domain.APIKey, error)
}

type finder struct {
	repo     domain.Repository
	cache    cache.Client
	cacheTTL time.Duration
	logger   *logrus.Logger
}

func NewFinder(
	repository domain.Repository,
	c cache.Client,
	cacheTTL time.Duration,
	logger *logrus.Logger,
) Finder {
	if cacheTTL <= 0 {
		cacheTTL = common.ApiKeyCacheTTL
	}
	return &finder{
		repo:     repository,
		cache:    c,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

func (f *finder) Find(ctx context.Context, plaintext string) (*domain.APIKey, error) {
	keyHash := domain.HashKey(plaintext)

	if f.cache != nil {
		if cached, err := f.cache.GetApiKey(ctx, keyHash); err == nil && cached != nil {
			cached.KeyHash = keyHash
			f.touchLastUsed(ctx, cached)
			return cached, nil
		}
	}

	entity, err := f.repo.GetByHash(ctx, keyHash)
	if err != nil {
		f.logger.WithError(err).Debug("failed to fetch apikey from repository")
		return nil, err
	}

	if f.cache != nil {
		if err := f.cache.SaveApiKey(ctx, entity, f.cacheTTL); err != nil {
			f.logger.WithError(err).Warn("failed to save apikey to distributed cache")
		}
	}
	f.touchLastUsed(ctx, entity)
	return entity, nil
}

func (f *finder) touchLastUsed(ctx context.Context, key *domain.APIKey) {
	if err := f.repo.TouchLastUsed(ctx, key.ID); err != nil {
		f.logger.WithError(err).Debug("failed to update api key last_used_at")
	}
}
