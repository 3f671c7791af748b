package models

// Phase represents the current stage of a game session
type Phase string

const (
	// PhaseLobby indicates a session is waiting for players to join and ready up
	PhaseLobby Phase = "lobby"

	// PhaseImagining indicates players are submitting prompts for the current round
	PhaseImagining Phase = "imagining"

	// PhaseGuessing indicates players are guessing each other's prompts
	PhaseGuessing Phase = "guessing"

	// PhaseScoring indicates the round's guesses are being scored
	PhaseScoring Phase = "scoring"

	// PhaseComplete indicates the session has finished all rounds
	PhaseComplete Phase = "complete"
)

// String returns the string representation of the phase
func (p Phase) String() string {
	return string(p)
}

// CanTransitionTo checks if a transition from the current phase to the
// target phase is valid. Scoring may loop back to Imagining for the next
// round; no phase ever returns to Lobby.
func (p Phase) CanTransitionTo(target Phase) bool {
	validTransitions := map[Phase][]Phase{
		PhaseLobby:     {PhaseImagining},
		PhaseImagining: {PhaseGuessing},
		PhaseGuessing:  {PhaseScoring},
		PhaseScoring:   {PhaseImagining, PhaseComplete},
		PhaseComplete:  {},
	}

	allowed, ok := validTransitions[p]
	if !ok {
		return false
	}

	for _, phase := range allowed {
		if phase == target {
			return true
		}
	}
	return false
}

// IsLobby reports whether the session is still gathering players
func (p Phase) IsLobby() bool {
	return p == PhaseLobby
}

// IsComplete reports whether the session has ended
func (p Phase) IsComplete() bool {
	return p == PhaseComplete
}
