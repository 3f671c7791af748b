package game

//go:generate mockgen -package=mocks -destination=mocks/mock_service.go github.com/guess-ai/backend/internal/services/game Service

import "context"

// Service defines the interface for game session operations
type Service interface {
	// CreateSession creates a new session with a unique join code
	CreateSession(ctx context.Context, input *CreateSessionInput) (*CreateSessionOutput, error)

	// JoinSession adds a player to a session identified by its join code
	JoinSession(ctx context.Context, input *JoinSessionInput) (*JoinSessionOutput, error)

	// SetReady marks a player ready; the session starts when all current
	// players are ready and the minimum player count is met
	SetReady(ctx context.Context, input *SetReadyInput) (*SetReadyOutput, error)

	// SubmitPrompt records a player's prompt for the current round
	SubmitPrompt(ctx context.Context, input *SubmitPromptInput) (*SubmitPromptOutput, error)

	// SubmitGuess records a player's guess at another player's prompt
	SubmitGuess(ctx context.Context, input *SubmitGuessInput) (*SubmitGuessOutput, error)

	// GetSession returns the current session state
	GetSession(ctx context.Context, input *GetSessionInput) (*GetSessionOutput, error)
}
