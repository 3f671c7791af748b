package models

import (
	"time"
)

// Guess records one player's attempt at reconstructing another player's prompt
type Guess struct {
	// PlayerID is the guessing player
	PlayerID string `json:"playerId"`

	// TargetID is the player whose prompt is being guessed
	TargetID string `json:"targetId"`

	// Text is the guessed prompt text
	Text string `json:"text"`
}

// Session represents one instance of the game, identified internally by an
// ID and externally by a short join code
type Session struct {
	// ID is the unique identifier for the session
	ID string `json:"sessionId"`

	// Code is the short human-typeable join code, unique across active sessions
	Code string `json:"code"`

	// Phase is the current stage of the session
	Phase Phase `json:"phase"`

	// CurrentRound is the round in progress, starting at 1
	CurrentRound int `json:"currentRound"`

	// TotalRounds is the number of rounds the session plays
	TotalRounds int `json:"totalRounds"`

	// Players contains the players in join order
	Players []*Player `json:"players"`

	// SubmittedPrompts maps player ID to that player's prompt for the current round
	SubmittedPrompts map[string]string `json:"submittedPrompts"`

	// SubmittedGuesses contains the current round's guesses in submission order
	SubmittedGuesses []Guess `json:"submittedGuesses"`

	// CurrentPrompt is the active round's prompt text driving content generation
	CurrentPrompt string `json:"currentPrompt"`

	// CurrentImage is a reference to the generated artifact for the round
	CurrentImage string `json:"currentImage"`

	// CreatedAt is when the session was created
	CreatedAt time.Time `json:"createdAt"`

	// UpdatedAt is when the session was last updated
	UpdatedAt time.Time `json:"updatedAt"`
}

// Player returns the player with the given ID, or nil if not present
func (s *Session) Player(playerID string) *Player {
	for _, p := range s.Players {
		if p.ID == playerID {
			return p
		}
	}
	return nil
}

// HasPlayer reports whether the player is a member of the session
func (s *Session) HasPlayer(playerID string) bool {
	return s.Player(playerID) != nil
}

// AllReady reports whether every current player has readied up
func (s *Session) AllReady() bool {
	for _, p := range s.Players {
		if !p.Ready {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of the session. Transitions operate on copies
// so a rejected action can never leave a partially mutated session behind.
func (s *Session) Clone() *Session {
	out := *s

	out.Players = make([]*Player, len(s.Players))
	for i, p := range s.Players {
		cp := *p
		out.Players[i] = &cp
	}

	out.SubmittedPrompts = make(map[string]string, len(s.SubmittedPrompts))
	for k, v := range s.SubmittedPrompts {
		out.SubmittedPrompts[k] = v
	}

	out.SubmittedGuesses = make([]Guess, len(s.SubmittedGuesses))
	copy(out.SubmittedGuesses, s.SubmittedGuesses)

	return &out
}
