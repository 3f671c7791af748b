package game

// Error is a custom error type for game-level errors
type Error string

// Error implements the error interface
func (e Error) Error() string {
	return string(e)
}

// Define errors
const (
	ErrSessionNotFound    Error = "session not found"
	ErrUnknownPlayer      Error = "player is not part of the session"
	ErrSessionFull        Error = "session is at maximum capacity"
	ErrWrongPhase         Error = "action is not valid in the current phase"
	ErrSelfGuess          Error = "players cannot guess their own prompt"
	ErrCodeSpaceExhausted Error = "could not allocate a unique session code"
	ErrStoreUnavailable   Error = "session store unavailable"
	ErrNilConfig          Error = "config cannot be nil"
	ErrNilSessionRepo     Error = "session repository cannot be nil"
	ErrNilUserRepo        Error = "user repository cannot be nil"
	ErrNilCodeGenerator   Error = "code generator cannot be nil"
	ErrNilScorer          Error = "scorer cannot be nil"
)
