package user

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/guess-ai/backend/internal/repositories/user Repository

import (
	"context"

	"github.com/guess-ai/backend/internal/models"
)

// Repository defines the interface for user identity persistence
type Repository interface {
	// SaveUser persists a user, rejecting duplicate usernames
	SaveUser(ctx context.Context, input *SaveUserInput) error

	// GetUser retrieves a user by ID
	GetUser(ctx context.Context, input *GetUserInput) (*models.User, error)

	// DisplayNameFor resolves a user ID to a display name, returning an
	// empty string when the user is unknown
	DisplayNameFor(ctx context.Context, input *DisplayNameForInput) (string, error)
}
