package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	"github.com/AegisGov/AegisGate/pkg/domain/apikey"
)

const apiKeyPattern = "apikey:%s"

//go:generate mockery --name=Client --dir=. --output=./mocks --filename=client_mock.go --case=underscore --with-expecter
type Client interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, expiration time.Duration) error
	Delete(ctx context.Context, key string) error
	RedisClient() *redis.Client

	GetApiKey(ctx context.Context, keyHash string) (*apikey.APIKey, error)
	SaveApiKey(ctx context.Context, key *apikey.APIKey, ttl time.Duration) error
	DeleteApiKey(ctx context.Context, keyHash string) error
}

type Config struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type client struct {
	redisClient *redis.Client
}

func NewClient(config Config, logger *logrus.Logger) (Client, error) {
	redisClient := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", config.Host, config.Port),
		Password: config.Password,
		DB:       config.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.WithFields(logrus.Fields{
			"host":  config.Host,
			"port":  config.Port,
			"error": err.Error(),
		}).Error("failed to connect to redis")
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"host": config.Host,
		"port": config.Port,
	}).Info("redis connected successfully")

	return &client{redisClient: redisClient}, nil
}

func (c *client) Get(ctx context.Context, key string) (string, error) {
	return c.redisClient.Get(ctx, key).Result()
}

func (c *client) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return c.redisClient.Set(ctx, key, value, expiration).Err()
}

func (c *client) Delete(ctx context.Context, key string) error {
	return c.redisClient.Del(ctx, key).Err()
}

func (c *client) RedisClient() *redis.Client {
	return c.redisClient
}

func (c *client) GetApiKey(ctx context.Context, keyHash string) (*apikey.APIKey, error) {
	res, err := c.Get(ctx, fmt.Sprintf(apiKeyPattern, keyHash))
	if err != nil {
		return nil, err
	}
	apiKey := new(apikey.APIKey)
	if err := json.Unmarshal([]byte(res), apiKey); err != nil {
		return nil, err
	}
	return apiKey, nil
}

func (c *client) SaveApiKey(ctx context.Context, key *apikey.APIKey, ttl time.Duration) error {
	encoded, err := json.Marshal(key)
	if err != nil {
		return err
	}
	return c.Set(ctx, fmt.Sprintf(apiKeyPattern, key.KeyHash), string(encoded), ttl)
}

func (c *client) DeleteApiKey(ctx context.Context, keyHash string) error {
	return c.Delete(ctx, fmt.Sprintf(apiKeyPattern, keyHash))
}
