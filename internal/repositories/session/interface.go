package session

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/guess-ai/backend/internal/repositories/session Repository

import (
	"context"

	"github.com/guess-ai/backend/internal/models"
)

// Repository defines the interface for session persistence
type Repository interface {
	// Save persists a session
	Save(ctx context.Context, input *SaveInput) error

	// Load retrieves a session by ID
	Load(ctx context.Context, input *LoadInput) (*models.Session, error)

	// FindIDByCode resolves a join code to a session ID
	FindIDByCode(ctx context.Context, input *FindIDByCodeInput) (string, error)

	// CodeExists reports whether a join code is already allocated
	CodeExists(ctx context.Context, input *CodeExistsInput) (bool, error)

	// Delete removes a session and its code mapping
	Delete(ctx context.Context, input *DeleteInput) error

	// GetActiveSessions retrieves all sessions that have not completed
	GetActiveSessions(ctx context.Context, input *GetActiveSessionsInput) (*GetActiveSessionsOutput, error)
}
