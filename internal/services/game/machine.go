package game

import (
	"github.com/guess-ai/backend/internal/models"
)

// The functions in this file form the session state machine: pure total
// functions from (session, action) to a new session or a rejection. They
// never touch storage and never mutate their input; rejected actions
// return the error alone so the caller's loaded state stays pristine.
// The service serializes calls per session ID, so two racing actions can
// never both apply against the same pre-state.

// limits carries the membership thresholds the machine advances on
type limits struct {
	maxPlayers int
	minPlayers int
}

// applyJoin adds a player to a lobby. Joining twice is idempotent and
// reports AlreadyJoined instead of duplicating the player.
func applyJoin(s *models.Session, playerID, displayName string, lim limits) (*models.Session, bool, error) {
	if s.HasPlayer(playerID) {
		return s, true, nil
	}

	if !s.Phase.IsLobby() {
		return nil, false, ErrWrongPhase
	}

	if len(s.Players) >= lim.maxPlayers {
		return nil, false, ErrSessionFull
	}

	next := s.Clone()
	next.Players = append(next.Players, &models.Player{
		ID:          playerID,
		DisplayName: displayName,
		Score:       0,
		Ready:       false,
	})

	return next, false, nil
}

// applyReady marks a player ready. When every current player is ready and
// the minimum count is met, the session leaves the lobby and round one
// begins.
func applyReady(s *models.Session, playerID string, lim limits) (*models.Session, error) {
	if !s.Phase.IsLobby() {
		return nil, ErrWrongPhase
	}

	if !s.HasPlayer(playerID) {
		return nil, ErrUnknownPlayer
	}

	next := s.Clone()
	next.Player(playerID).Ready = true

	if next.AllReady() && len(next.Players) >= lim.minPlayers {
		if err := transition(next, models.PhaseImagining); err != nil {
			return nil, err
		}
	}

	return next, nil
}

// applyPrompt records a player's prompt for the current round, overwriting
// any earlier submission. Once every player has a prompt the round moves
// to guessing.
func applyPrompt(s *models.Session, playerID, text string) (*models.Session, error) {
	if s.Phase != models.PhaseImagining {
		return nil, ErrWrongPhase
	}

	if !s.HasPlayer(playerID) {
		return nil, ErrUnknownPlayer
	}

	next := s.Clone()
	next.SubmittedPrompts[playerID] = text

	if len(next.SubmittedPrompts) == len(next.Players) {
		if err := transition(next, models.PhaseGuessing); err != nil {
			return nil, err
		}
	}

	return next, nil
}

// applyGuess records a guess at another player's prompt. A repeated
// (guesser, target) pair overwrites the earlier guess in place. When every
// player has guessed every other player's prompt the round moves to
// scoring.
func applyGuess(s *models.Session, playerID, targetID, text string) (*models.Session, error) {
	if s.Phase != models.PhaseGuessing {
		return nil, ErrWrongPhase
	}

	if !s.HasPlayer(playerID) || !s.HasPlayer(targetID) {
		return nil, ErrUnknownPlayer
	}

	if playerID == targetID {
		return nil, ErrSelfGuess
	}

	next := s.Clone()

	replaced := false
	for i, g := range next.SubmittedGuesses {
		if g.PlayerID == playerID && g.TargetID == targetID {
			next.SubmittedGuesses[i].Text = text
			replaced = true
			break
		}
	}

	if !replaced {
		next.SubmittedGuesses = append(next.SubmittedGuesses, models.Guess{
			PlayerID: playerID,
			TargetID: targetID,
			Text:     text,
		})
	}

	if len(next.SubmittedGuesses) == expectedGuessCount(len(next.Players)) {
		if err := transition(next, models.PhaseScoring); err != nil {
			return nil, err
		}
	}

	return next, nil
}

// finishRound applies the round's computed scores and advances to the next
// round, or completes the session after the final one. Scoring itself is
// the caller's job; this only applies the results.
func finishRound(s *models.Session, roundScores map[string]int) (*models.Session, error) {
	if s.Phase != models.PhaseScoring {
		return nil, ErrWrongPhase
	}

	next := s.Clone()

	for _, p := range next.Players {
		p.Score += roundScores[p.ID]
		p.Ready = false
	}

	next.SubmittedPrompts = make(map[string]string)
	next.SubmittedGuesses = []models.Guess{}
	next.CurrentPrompt = ""
	next.CurrentImage = ""

	if next.CurrentRound >= next.TotalRounds {
		if err := transition(next, models.PhaseComplete); err != nil {
			return nil, err
		}
		return next, nil
	}

	next.CurrentRound++
	if err := transition(next, models.PhaseImagining); err != nil {
		return nil, err
	}

	return next, nil
}

// expectedGuessCount is the number of guesses that completes a round:
// each player guesses every other player's prompt
func expectedGuessCount(playerCount int) int {
	return playerCount * (playerCount - 1)
}

// transition moves the session to the target phase, rejecting anything the
// phase graph does not allow
func transition(s *models.Session, target models.Phase) error {
	if !s.Phase.CanTransitionTo(target) {
		return ErrWrongPhase
	}
	s.Phase = target
	return nil
}
