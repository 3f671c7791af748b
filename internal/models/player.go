package models

// Player represents a participant in a game session
type Player struct {
	// ID is the caller-supplied identifier for the player, unique within a session
	ID string `json:"id"`

	// DisplayName is the resolved name of the player, empty if unresolved
	DisplayName string `json:"displayName"`

	// Score is the player's accumulated score for the session
	Score int `json:"score"`

	// Ready indicates the player has readied up for the current round
	Ready bool `json:"ready"`
}
