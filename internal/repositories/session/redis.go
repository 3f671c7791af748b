package session

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
	sessionKeyPrefix  = "session:"
	codeKeyPrefix     = "code:"
	activeSessionsKey = "active_sessions"
)

// ErrSessionNotFound is returned when a session is not found
var ErrSessionNotFound = errors.New("session not found")

// Config holds configuration for the Redis session repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed session repository
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

// Save persists a session to Redis. The session blob, the code-to-ID
// mapping and the active set are written in one pipeline so a code never
// resolves to a missing session.
func (r *redisRepository) Save(ctx context.Context, input *SaveInput) error {
	if input == nil || input.Session == nil {
		return errors.New("input and session cannot be nil")
	}

	sessionJSON, err := json.Marshal(input.Session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	pipe := r.client.Pipeline()

	sessionKey := fmt.Sprintf("%s%s", sessionKeyPrefix, input.Session.ID)
	pipe.Set(ctx, sessionKey, sessionJSON, 0)

	// Keep the join code resolvable while the session is active
	if input.Session.Code != "" {
		codeKey := fmt.Sprintf("%s%s", codeKeyPrefix, input.Session.Code)
		if input.Session.Phase.IsComplete() {
			pipe.Del(ctx, codeKey)
		} else {
			pipe.Set(ctx, codeKey, input.Session.ID, 0)
		}
	}

	if input.Session.Phase.IsComplete() {
		pipe.SRem(ctx, activeSessionsKey, input.Session.ID)
	} else {
		pipe.SAdd(ctx, activeSessionsKey, input.Session.ID)
	}

	_, err = pipe.Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	return nil
}

// Load retrieves a session by ID from Redis
func (r *redisRepository) Load(ctx context.Context, input *LoadInput) (*models.Session, error) {
	if input == nil || input.SessionID == "" {
		return nil, errors.New("input and session ID cannot be empty")
	}

	sessionKey := fmt.Sprintf("%s%s", sessionKeyPrefix, input.SessionID)
	sessionJSON, err := r.client.Get(ctx, sessionKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var session models.Session
	if err := json.Unmarshal([]byte(sessionJSON), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return &session, nil
}

// FindIDByCode resolves a join code to a session ID
func (r *redisRepository) FindIDByCode(ctx context.Context, input *FindIDByCodeInput) (string, error) {
	if input == nil || input.Code == "" {
		return "", errors.New("input and code cannot be empty")
	}

	codeKey := fmt.Sprintf("%s%s", codeKeyPrefix, input.Code)
	sessionID, err := r.client.Get(ctx, codeKey).Result()
	if err != nil {
		if err == redis.Nil {
			return "", ErrSessionNotFound
		}
		return "", fmt.Errorf("failed to get session ID for code: %w", err)
	}

	return sessionID, nil
}

// CodeExists reports whether a join code is already allocated
func (r *redisRepository) CodeExists(ctx context.Context, input *CodeExistsInput) (bool, error) {
	if input == nil || input.Code == "" {
		return false, errors.New("input and code cannot be empty")
	}

	codeKey := fmt.Sprintf("%s%s", codeKeyPrefix, input.Code)
	count, err := r.client.Exists(ctx, codeKey).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check code existence: %w", err)
	}

	return count > 0, nil
}

// Delete removes a session from Redis
func (r *redisRepository) Delete(ctx context.Context, input *DeleteInput) error {
	if input == nil || input.SessionID == "" {
		return errors.New("input and session ID cannot be empty")
	}

	// Load the session first to find its code mapping
	session, err := r.Load(ctx, &LoadInput{
		SessionID: input.SessionID,
	})
	if err != nil {
		return err
	}

	pipe := r.client.Pipeline()

	sessionKey := fmt.Sprintf("%s%s", sessionKeyPrefix, input.SessionID)
	pipe.Del(ctx, sessionKey)

	if session.Code != "" {
		codeKey := fmt.Sprintf("%s%s", codeKeyPrefix, session.Code)
		pipe.Del(ctx, codeKey)
	}

	pipe.SRem(ctx, activeSessionsKey, input.SessionID)

	_, err = pipe.Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	return nil
}

// GetActiveSessions retrieves all sessions that have not completed
func (r *redisRepository) GetActiveSessions(ctx context.Context, input *GetActiveSessionsInput) (*GetActiveSessionsOutput, error) {
	sessionIDs, err := r.client.SMembers(ctx, activeSessionsKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get active session IDs: %w", err)
	}

	if len(sessionIDs) == 0 {
		return &GetActiveSessionsOutput{
			Sessions: []*models.Session{},
		}, nil
	}

	pipe := r.client.Pipeline()
	sessionCommands := make(map[string]*redis.StringCmd)

	for _, sessionID := range sessionIDs {
		sessionKey := fmt.Sprintf("%s%s", sessionKeyPrefix, sessionID)
		sessionCommands[sessionID] = pipe.Get(ctx, sessionKey)
	}

	_, err = pipe.Exec(ctx)
	if err != nil && err != redis.Nil {
		return nil, fmt.Errorf("failed to get active sessions: %w", err)
	}

	sessions := make([]*models.Session, 0, len(sessionIDs))
	for _, cmd := range sessionCommands {
		sessionJSON, err := cmd.Result()
		if err != nil {
			// Entry may have been deleted between SMembers and Get
			continue
		}

		var session models.Session
		if err := json.Unmarshal([]byte(sessionJSON), &session); err != nil {
			continue
		}

		sessions = append(sessions, &session)
	}

	return &GetActiveSessionsOutput{
		Sessions: sessions,
	}, nil
}
