package container

import (
	"github.com/lyzr/sequences/cmd/sequences/auth"
	"github.com/lyzr/sequences/cmd/sequences/repository"
	"github.com/lyzr/sequences/cmd/sequences/service"
	"github.com/lyzr/sequences/common/bootstrap"
	"github.com/lyzr/sequences/common/ratelimit"
	"github.com/redis/go-redis/v9"
)

// Container holds all initialized services and repositories (singleton pattern)
type Container struct {
	// Components
	Components  *bootstrap.Components
	Redis       *redis.Client
	RateLimiter *ratelimit.RateLimiter
	Tokens      *auth.TokenManager

	// Repositories
	SequenceRepo *repository.SequenceRepository

	// Services
	SequenceService *service.SequenceService
}

// NewContainer initializes all services and repositories once
func NewContainer(components *bootstrap.Components) (*Container, error) {
	cfg := components.Config

	// Redis backs the rate limiter only; the client is lazy, so creating
	// it is safe even when rate limiting is disabled
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.Redis.Password,
		DB:       0,
	})

	rateLimiter := ratelimit.NewRateLimiter(redisClient, components.Logger)

	tokens := auth.NewTokenManager(cfg.Auth)

	// Initialize repositories
	sequenceRepo := repository.NewSequenceRepository(components.DB, components.Logger)

	// Initialize services (bottom-up: dependencies first)
	sequenceService := service.NewSequenceService(sequenceRepo, components.Logger)

	return &Container{
		Components:      components,
		Redis:           redisClient,
		RateLimiter:     rateLimiter,
		Tokens:          tokens,
		SequenceRepo:    sequenceRepo,
		SequenceService: sequenceService,
	}, nil
}
