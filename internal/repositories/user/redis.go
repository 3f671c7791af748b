package user

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/guess-ai/backend/internal/models"
)

const (
	// Key prefixes for Redis
	userKeyPrefix     = "user:"
	usernameKeyPrefix = "username:"
)

var (
	// ErrUserNotFound is returned when a user is not found
	ErrUserNotFound = errors.New("user not found")

	// ErrUsernameTaken is returned when the username is already registered
	ErrUsernameTaken = errors.New("username already exists")
)

// Config holds configuration for the Redis user repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed user repository
func NewRedis(cfg *Config) (*redisRepository, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.RedisClient == nil {
		return nil, errors.New("redis client cannot be nil")
	}

	// Test connection
	if err := cfg.RedisClient.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &redisRepository{
		client: cfg.RedisClient,
	}, nil
}

// SaveUser persists a user to Redis. The username mapping doubles as a
// uniqueness guard: SETNX fails when another user holds the name.
func (r *redisRepository) SaveUser(ctx context.Context, input *SaveUserInput) error {
	if input == nil || input.User == nil {
		return errors.New("input and user cannot be nil")
	}

	user := input.User

	if user.ID == "" {
		return errors.New("user ID cannot be empty")
	}

	if user.Username == "" {
		return errors.New("username cannot be empty")
	}

	usernameKey := fmt.Sprintf("%s%s", usernameKeyPrefix, user.Username)
	claimed, err := r.client.SetNX(ctx, usernameKey, user.ID, 0).Result()
	if err != nil {
		return fmt.Errorf("failed to claim username: %w", err)
	}

	if !claimed {
		// The name may already belong to this same user
		ownerID, err := r.client.Get(ctx, usernameKey).Result()
		if err != nil {
			return fmt.Errorf("failed to check username owner: %w", err)
		}
		if ownerID != user.ID {
			return ErrUsernameTaken
		}
	}

	userJSON, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to marshal user: %w", err)
	}

	userKey := fmt.Sprintf("%s%s", userKeyPrefix, user.ID)
	if err := r.client.Set(ctx, userKey, userJSON, 0).Err(); err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}

	return nil
}

// GetUser retrieves a user by ID from Redis
func (r *redisRepository) GetUser(ctx context.Context, input *GetUserInput) (*models.User, error) {
	if input == nil || input.UserID == "" {
		return nil, errors.New("input and user ID cannot be empty")
	}

	userKey := fmt.Sprintf("%s%s", userKeyPrefix, input.UserID)
	userJSON, err := r.client.Get(ctx, userKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	var user models.User
	if err := json.Unmarshal([]byte(userJSON), &user); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user: %w", err)
	}

	return &user, nil
}

// DisplayNameFor resolves a user ID to a display name. Unknown users
// resolve to an empty string rather than an error so joins can proceed
// for unregistered players.
func (r *redisRepository) DisplayNameFor(ctx context.Context, input *DisplayNameForInput) (string, error) {
	if input == nil || input.UserID == "" {
		return "", errors.New("input and user ID cannot be empty")
	}

	user, err := r.GetUser(ctx, &GetUserInput{
		UserID: input.UserID,
	})
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return "", nil
		}
		return "", err
	}

	return user.Username, nil
}
