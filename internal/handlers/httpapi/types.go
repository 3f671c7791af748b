package httpapi

// CreateUserRequest registers a display name
type CreateUserRequest struct {
	Username string `json:"username" binding:"required"`
}

// CreateUserResponse carries the new user's identity
type CreateUserResponse struct {
	UserID string `json:"userId"`
}

// CreateGameRequest optionally overrides session settings
type CreateGameRequest struct {
	// TotalRounds overrides the configured round count when positive
	TotalRounds int `json:"totalRounds"`
}

// JoinGameRequest joins a session by its short code
type JoinGameRequest struct {
	Code     string `json:"code" binding:"required"`
	PlayerID string `json:"playerId" binding:"required"`
}

// ReadyRequest marks a player ready in the lobby
type ReadyRequest struct {
	SessionID string `json:"sessionId" binding:"required"`
	PlayerID  string `json:"playerId" binding:"required"`
}

// PromptRequest submits a player's prompt for the current round
type PromptRequest struct {
	SessionID string `json:"sessionId" binding:"required"`
	PlayerID  string `json:"playerId" binding:"required"`
	Prompt    string `json:"prompt" binding:"required"`
}

// GuessRequest submits a guess at another player's prompt
type GuessRequest struct {
	SessionID string `json:"sessionId" binding:"required"`
	PlayerID  string `json:"playerId" binding:"required"`
	TargetID  string `json:"targetId" binding:"required"`
	Guess     string `json:"guess" binding:"required"`
}

// GenerateChatRequest asks the AI provider for a text completion
type GenerateChatRequest struct {
	Prompt string `json:"prompt" binding:"required"`
}

// GenerateImageRequest asks the AI provider for an image
type GenerateImageRequest struct {
	Prompt string `json:"prompt" binding:"required"`
}
