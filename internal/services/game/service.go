package game

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/guess-ai/backend/internal/common/clock"
	"github.com/guess-ai/backend/internal/common/uuid"
	"github.com/guess-ai/backend/internal/gamecode"
	"github.com/guess-ai/backend/internal/models"
	sessionRepo "github.com/guess-ai/backend/internal/repositories/session"
	userRepo "github.com/guess-ai/backend/internal/repositories/user"
)

const (
	defaultMaxPlayers      = 2
	defaultMinPlayers      = 2
	defaultTotalRounds     = 3
	defaultMaxCodeAttempts = 100
)

// service implements the Service interface
type service struct {
	config          *Config
	sessionRepo     sessionRepo.Repository
	userRepo        userRepo.Repository
	codeGenerator   gamecode.Generator
	scorer          Scorer
	contentProvider ContentProvider
	clock           clock.Clock
	uuidGenerator   uuid.UUID

	// Per-session locks: every mutating action runs its whole
	// load-apply-save sequence inside the session's critical section, so
	// two racing joins can never both observe the last free slot.
	mu           sync.Mutex
	sessionLocks map[string]*sync.Mutex
}

// New creates a new game service
func New(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	if cfg.SessionRepo == nil {
		return nil, ErrNilSessionRepo
	}

	if cfg.UserRepo == nil {
		return nil, ErrNilUserRepo
	}

	if cfg.CodeGenerator == nil {
		return nil, ErrNilCodeGenerator
	}

	if cfg.Scorer == nil {
		return nil, ErrNilScorer
	}

	if cfg.Clock == nil {
		cfg.Clock = clock.New()
	}

	if cfg.UUIDGenerator == nil {
		cfg.UUIDGenerator = uuid.New()
	}

	if cfg.MaxPlayers <= 0 {
		cfg.MaxPlayers = defaultMaxPlayers
	}

	if cfg.MinPlayers <= 0 {
		cfg.MinPlayers = defaultMinPlayers
	}

	if cfg.TotalRounds <= 0 {
		cfg.TotalRounds = defaultTotalRounds
	}

	if cfg.MaxCodeAttempts <= 0 {
		cfg.MaxCodeAttempts = defaultMaxCodeAttempts
	}

	return &service{
		config:          cfg,
		sessionRepo:     cfg.SessionRepo,
		userRepo:        cfg.UserRepo,
		codeGenerator:   cfg.CodeGenerator,
		scorer:          cfg.Scorer,
		contentProvider: cfg.ContentProvider,
		clock:           cfg.Clock,
		uuidGenerator:   cfg.UUIDGenerator,
		sessionLocks:    make(map[string]*sync.Mutex),
	}, nil
}

// CreateSession creates a new session with a unique join code
func (s *service) CreateSession(ctx context.Context, input *CreateSessionInput) (*CreateSessionOutput, error) {
	if input == nil {
		input = &CreateSessionInput{}
	}

	code, err := s.allocateCode(ctx)
	if err != nil {
		return nil, err
	}

	totalRounds := input.TotalRounds
	if totalRounds <= 0 {
		totalRounds = s.config.TotalRounds
	}

	now := s.clock.Now()
	session := &models.Session{
		ID:               s.uuidGenerator.NewUUID(),
		Code:             code,
		Phase:            models.PhaseLobby,
		CurrentRound:     1,
		TotalRounds:      totalRounds,
		Players:          []*models.Player{},
		SubmittedPrompts: make(map[string]string),
		SubmittedGuesses: []models.Guess{},
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.saveSession(ctx, session); err != nil {
		return nil, err
	}

	return &CreateSessionOutput{
		Session: session,
	}, nil
}

// JoinSession adds a player to a session identified by its join code
func (s *service) JoinSession(ctx context.Context, input *JoinSessionInput) (*JoinSessionOutput, error) {
	if input == nil || input.Code == "" || input.PlayerID == "" {
		return nil, errors.New("input, code and player ID are required")
	}

	sessionID, err := s.sessionRepo.FindIDByCode(ctx, &sessionRepo.FindIDByCodeInput{
		Code: input.Code,
	})
	if err != nil {
		return nil, s.loadErr(err)
	}

	unlock := s.lockSession(sessionID)
	defer unlock()

	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	// Identity lookup failures degrade to an empty display name; a missing
	// profile should not block joining.
	displayName, err := s.userRepo.DisplayNameFor(ctx, &userRepo.DisplayNameForInput{
		UserID: input.PlayerID,
	})
	if err != nil {
		displayName = ""
	}

	next, alreadyJoined, err := applyJoin(session, input.PlayerID, displayName, s.limits())
	if err != nil {
		return nil, err
	}

	if alreadyJoined {
		return &JoinSessionOutput{
			Session:       next,
			AlreadyJoined: true,
		}, nil
	}

	next.UpdatedAt = s.clock.Now()
	if err := s.saveSession(ctx, next); err != nil {
		return nil, err
	}

	return &JoinSessionOutput{
		Session: next,
	}, nil
}

// SetReady marks a player ready
func (s *service) SetReady(ctx context.Context, input *SetReadyInput) (*SetReadyOutput, error) {
	if input == nil || input.SessionID == "" || input.PlayerID == "" {
		return nil, errors.New("input, session ID and player ID are required")
	}

	unlock := s.lockSession(input.SessionID)
	defer unlock()

	session, err := s.loadSession(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}

	next, err := applyReady(session, input.PlayerID, s.limits())
	if err != nil {
		return nil, err
	}

	next.UpdatedAt = s.clock.Now()
	if err := s.saveSession(ctx, next); err != nil {
		return nil, err
	}

	return &SetReadyOutput{
		Session: next,
	}, nil
}

// SubmitPrompt records a player's prompt for the current round. When the
// round fills, a content artifact is generated for the round's featured
// prompt before the guessing phase is persisted.
func (s *service) SubmitPrompt(ctx context.Context, input *SubmitPromptInput) (*SubmitPromptOutput, error) {
	if input == nil || input.SessionID == "" || input.PlayerID == "" {
		return nil, errors.New("input, session ID and player ID are required")
	}

	unlock := s.lockSession(input.SessionID)
	defer unlock()

	session, err := s.loadSession(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}

	next, err := applyPrompt(session, input.PlayerID, input.Prompt)
	if err != nil {
		return nil, err
	}

	if next.Phase == models.PhaseGuessing {
		s.generateRoundContent(ctx, next)
	}

	next.UpdatedAt = s.clock.Now()
	if err := s.saveSession(ctx, next); err != nil {
		return nil, err
	}

	return &SubmitPromptOutput{
		Session: next,
	}, nil
}

// SubmitGuess records a player's guess. The guess that completes the round
// also triggers scoring: every recorded guess is graded against its
// target's prompt and the round is finished before the state is persisted,
// all inside the same critical section.
func (s *service) SubmitGuess(ctx context.Context, input *SubmitGuessInput) (*SubmitGuessOutput, error) {
	if input == nil || input.SessionID == "" || input.PlayerID == "" || input.TargetID == "" {
		return nil, errors.New("input, session ID, player ID and target ID are required")
	}

	unlock := s.lockSession(input.SessionID)
	defer unlock()

	session, err := s.loadSession(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}

	next, err := applyGuess(session, input.PlayerID, input.TargetID, input.Guess)
	if err != nil {
		return nil, err
	}

	if next.Phase == models.PhaseScoring {
		roundScores, err := s.scoreRound(ctx, next)
		if err != nil {
			// Nothing is persisted; the caller may retry the guess to
			// re-trigger scoring.
			return nil, err
		}

		next, err = finishRound(next, roundScores)
		if err != nil {
			return nil, err
		}
	}

	next.UpdatedAt = s.clock.Now()
	if err := s.saveSession(ctx, next); err != nil {
		return nil, err
	}

	return &SubmitGuessOutput{
		Session: next,
	}, nil
}

// GetSession returns the current session state
func (s *service) GetSession(ctx context.Context, input *GetSessionInput) (*GetSessionOutput, error) {
	if input == nil || input.SessionID == "" {
		return nil, errors.New("input and session ID are required")
	}

	session, err := s.loadSession(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}

	return &GetSessionOutput{
		Session: session,
	}, nil
}

// allocateCode draws codes until one is free in the store. The code space
// dwarfs the number of concurrent sessions, so more than a couple of
// attempts means something is wrong; the cap turns that into an explicit
// error instead of an endless loop.
func (s *service) allocateCode(ctx context.Context) (string, error) {
	for attempt := 0; attempt < s.config.MaxCodeAttempts; attempt++ {
		code := s.codeGenerator.Generate()

		exists, err := s.sessionRepo.CodeExists(ctx, &sessionRepo.CodeExistsInput{
			Code: code,
		})
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}

		if !exists {
			return code, nil
		}
	}

	return "", ErrCodeSpaceExhausted
}

// scoreRound grades every recorded guess against its target's prompt and
// returns each player's score total for the round
func (s *service) scoreRound(ctx context.Context, session *models.Session) (map[string]int, error) {
	roundScores := make(map[string]int, len(session.Players))

	for _, guess := range session.SubmittedGuesses {
		reference := session.SubmittedPrompts[guess.TargetID]

		score, err := s.scorer.Score(ctx, reference, guess.Text)
		if err != nil {
			return nil, fmt.Errorf("failed to score guess: %w", err)
		}

		roundScores[guess.PlayerID] += score
	}

	return roundScores, nil
}

// generateRoundContent picks the round's featured prompt and asks the
// content provider for an artifact. Generation is best effort: the round
// can proceed text-only when the provider is unavailable.
func (s *service) generateRoundContent(ctx context.Context, session *models.Session) {
	if len(session.Players) == 0 {
		return
	}

	// Feature a different player's prompt each round, rotating join order
	featured := session.Players[(session.CurrentRound-1)%len(session.Players)]
	prompt := session.SubmittedPrompts[featured.ID]

	session.CurrentPrompt = prompt
	session.CurrentImage = ""

	if s.contentProvider == nil || prompt == "" {
		return
	}

	if artifact, err := s.contentProvider.GenerateImage(ctx, prompt); err == nil {
		session.CurrentImage = artifact
	}
}

func (s *service) limits() limits {
	return limits{
		maxPlayers: s.config.MaxPlayers,
		minPlayers: s.config.MinPlayers,
	}
}

// lockSession acquires the per-session mutex, creating it on first use
func (s *service) lockSession(sessionID string) func() {
	s.mu.Lock()
	lock, ok := s.sessionLocks[sessionID]
	if !ok {
		lock = &sync.Mutex{}
		s.sessionLocks[sessionID] = lock
	}
	s.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}

func (s *service) loadSession(ctx context.Context, sessionID string) (*models.Session, error) {
	session, err := s.sessionRepo.Load(ctx, &sessionRepo.LoadInput{
		SessionID: sessionID,
	})
	if err != nil {
		return nil, s.loadErr(err)
	}

	return session, nil
}

func (s *service) saveSession(ctx context.Context, session *models.Session) error {
	err := s.sessionRepo.Save(ctx, &sessionRepo.SaveInput{
		Session: session,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	return nil
}

func (s *service) loadErr(err error) error {
	if errors.Is(err, sessionRepo.ErrSessionNotFound) {
		return ErrSessionNotFound
	}
	return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
}
