package game

import (
	"context"

	"github.com/guess-ai/backend/internal/common/clock"
	"github.com/guess-ai/backend/internal/common/uuid"
	"github.com/guess-ai/backend/internal/gamecode"
	"github.com/guess-ai/backend/internal/models"
	sessionRepo "github.com/guess-ai/backend/internal/repositories/session"
	userRepo "github.com/guess-ai/backend/internal/repositories/user"
)

//go:generate mockgen -package=mocks -destination=mocks/mock_deps.go github.com/guess-ai/backend/internal/services/game Scorer,ContentProvider

// Scorer grades a guess against a reference prompt on a 0-100 scale
type Scorer interface {
	Score(ctx context.Context, reference, candidate string) (int, error)
}

// ContentProvider generates a content artifact reference for a round prompt
type ContentProvider interface {
	GenerateImage(ctx context.Context, prompt string) (string, error)
}

// Config holds configuration for the game service
type Config struct {
	// Maximum number of players per session
	MaxPlayers int

	// Minimum number of ready players required to start a session
	MinPlayers int

	// Number of rounds a session plays unless overridden at creation
	TotalRounds int

	// How many codes to try before giving up on allocation
	MaxCodeAttempts int

	// Repository dependencies
	SessionRepo sessionRepo.Repository
	UserRepo    userRepo.Repository

	// Service dependencies
	CodeGenerator   gamecode.Generator
	Scorer          Scorer
	ContentProvider ContentProvider
	Clock           clock.Clock
	UUIDGenerator   uuid.UUID
}

// CreateSessionInput contains parameters for creating a new session
type CreateSessionInput struct {
	// TotalRounds overrides the configured round count when positive
	TotalRounds int
}

// CreateSessionOutput contains the result of creating a session
type CreateSessionOutput struct {
	// Session is the newly created session, in the Lobby phase
	Session *models.Session
}

// JoinSessionInput contains parameters for joining a session by code
type JoinSessionInput struct {
	// Code is the short join code for the session
	Code string

	// PlayerID is the identifier of the joining player
	PlayerID string
}

// JoinSessionOutput contains the result of joining a session
type JoinSessionOutput struct {
	// Session is the session state after the join
	Session *models.Session

	// AlreadyJoined indicates the player was already a member
	AlreadyJoined bool
}

// SetReadyInput contains parameters for marking a player ready
type SetReadyInput struct {
	// SessionID is the session to act on
	SessionID string

	// PlayerID is the player readying up
	PlayerID string
}

// SetReadyOutput contains the result of a ready action
type SetReadyOutput struct {
	Session *models.Session
}

// SubmitPromptInput contains parameters for submitting a round prompt
type SubmitPromptInput struct {
	SessionID string
	PlayerID  string

	// Prompt is the text intended to drive content generation
	Prompt string
}

// SubmitPromptOutput contains the result of a prompt submission
type SubmitPromptOutput struct {
	Session *models.Session
}

// SubmitGuessInput contains parameters for submitting a guess
type SubmitGuessInput struct {
	SessionID string

	// PlayerID is the guessing player
	PlayerID string

	// TargetID is the player whose prompt is being guessed
	TargetID string

	// Guess is the guessed prompt text
	Guess string
}

// SubmitGuessOutput contains the result of a guess submission
type SubmitGuessOutput struct {
	Session *models.Session
}

// GetSessionInput contains parameters for reading session state
type GetSessionInput struct {
	SessionID string
}

// GetSessionOutput contains the current session state
type GetSessionOutput struct {
	Session *models.Session
}
