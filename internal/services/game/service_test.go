package game_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	clockMocks "github.com/guess-ai/backend/internal/common/clock/mocks"
	uuidMocks "github.com/guess-ai/backend/internal/common/uuid/mocks"
	codeMocks "github.com/guess-ai/backend/internal/gamecode/mocks"
	"github.com/guess-ai/backend/internal/models"
	sessionRepo "github.com/guess-ai/backend/internal/repositories/session"
	sessionMocks "github.com/guess-ai/backend/internal/repositories/session/mocks"
	userRepo "github.com/guess-ai/backend/internal/repositories/user"
	userMocks "github.com/guess-ai/backend/internal/repositories/user/mocks"
	"github.com/guess-ai/backend/internal/services/game"
	gameMocks "github.com/guess-ai/backend/internal/services/game/mocks"
)

type GameServiceTestSuite struct {
	suite.Suite
	mockCtrl        *gomock.Controller
	mockSessionRepo *sessionMocks.MockRepository
	mockUserRepo    *userMocks.MockRepository
	mockCodeGen     *codeMocks.MockGenerator
	mockScorer      *gameMocks.MockScorer
	mockContent     *gameMocks.MockContentProvider
	mockClock       *clockMocks.MockClock
	mockUUID        *uuidMocks.MockUUID
	gameService     game.Service
	ctx             context.Context

	// Test data
	testTime      time.Time
	testSessionID string
	testCode      string
}

func (s *GameServiceTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockSessionRepo = sessionMocks.NewMockRepository(s.mockCtrl)
	s.mockUserRepo = userMocks.NewMockRepository(s.mockCtrl)
	s.mockCodeGen = codeMocks.NewMockGenerator(s.mockCtrl)
	s.mockScorer = gameMocks.NewMockScorer(s.mockCtrl)
	s.mockContent = gameMocks.NewMockContentProvider(s.mockCtrl)
	s.mockClock = clockMocks.NewMockClock(s.mockCtrl)
	s.mockUUID = uuidMocks.NewMockUUID(s.mockCtrl)

	s.ctx = context.Background()

	s.testTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s.testSessionID = "test-session-id"
	s.testCode = "AB12C"

	s.mockClock.EXPECT().Now().Return(s.testTime).AnyTimes()

	svc, err := game.New(&game.Config{
		SessionRepo:     s.mockSessionRepo,
		UserRepo:        s.mockUserRepo,
		CodeGenerator:   s.mockCodeGen,
		Scorer:          s.mockScorer,
		ContentProvider: s.mockContent,
		Clock:           s.mockClock,
		UUIDGenerator:   s.mockUUID,
		MaxPlayers:      2,
		MinPlayers:      2,
		TotalRounds:     3,
		MaxCodeAttempts: 3,
	})
	s.Require().NoError(err)
	s.gameService = svc
}

func (s *GameServiceTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestGameServiceTestSuite(t *testing.T) {
	suite.Run(t, new(GameServiceTestSuite))
}

func (s *GameServiceTestSuite) lobbySession(players ...*models.Player) *models.Session {
	return &models.Session{
		ID:               s.testSessionID,
		Code:             s.testCode,
		Phase:            models.PhaseLobby,
		CurrentRound:     1,
		TotalRounds:      3,
		Players:          players,
		SubmittedPrompts: make(map[string]string),
		SubmittedGuesses: []models.Guess{},
		CreatedAt:        s.testTime,
		UpdatedAt:        s.testTime,
	}
}

func (s *GameServiceTestSuite) expectLoad(session *models.Session) {
	s.mockSessionRepo.EXPECT().
		Load(s.ctx, &sessionRepo.LoadInput{SessionID: s.testSessionID}).
		Return(session, nil)
}

func (s *GameServiceTestSuite) TestNewDefaultsClockAndUUID() {
	svc, err := game.New(&game.Config{
		SessionRepo:     s.mockSessionRepo,
		UserRepo:        s.mockUserRepo,
		CodeGenerator:   s.mockCodeGen,
		Scorer:          s.mockScorer,
		ContentProvider: s.mockContent,
	})
	s.Require().NoError(err)
	s.NotNil(svc)
}

func (s *GameServiceTestSuite) TestCreateSession() {
	s.mockCodeGen.EXPECT().Generate().Return(s.testCode)
	s.mockSessionRepo.EXPECT().
		CodeExists(s.ctx, &sessionRepo.CodeExistsInput{Code: s.testCode}).
		Return(false, nil)
	s.mockUUID.EXPECT().NewUUID().Return(s.testSessionID)

	var saved *models.Session
	s.mockSessionRepo.EXPECT().
		Save(s.ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, input *sessionRepo.SaveInput) error {
			saved = input.Session
			return nil
		})

	out, err := s.gameService.CreateSession(s.ctx, &game.CreateSessionInput{})
	s.Require().NoError(err)

	s.Equal(s.testSessionID, out.Session.ID)
	s.Equal(s.testCode, out.Session.Code)
	s.Equal(models.PhaseLobby, out.Session.Phase)
	s.Equal(1, out.Session.CurrentRound)
	s.Equal(3, out.Session.TotalRounds)
	s.Empty(out.Session.Players)
	s.Equal(saved, out.Session)
}

func (s *GameServiceTestSuite) TestCreateSessionRoundsOverride() {
	s.mockCodeGen.EXPECT().Generate().Return(s.testCode)
	s.mockSessionRepo.EXPECT().
		CodeExists(s.ctx, gomock.Any()).
		Return(false, nil)
	s.mockUUID.EXPECT().NewUUID().Return(s.testSessionID)
	s.mockSessionRepo.EXPECT().Save(s.ctx, gomock.Any()).Return(nil)

	out, err := s.gameService.CreateSession(s.ctx, &game.CreateSessionInput{
		TotalRounds: 5,
	})
	s.Require().NoError(err)
	s.Equal(5, out.Session.TotalRounds)
}

func (s *GameServiceTestSuite) TestCreateSessionRetriesTakenCode() {
	gomock.InOrder(
		s.mockCodeGen.EXPECT().Generate().Return("TAKEN"),
		s.mockSessionRepo.EXPECT().
			CodeExists(s.ctx, &sessionRepo.CodeExistsInput{Code: "TAKEN"}).
			Return(true, nil),
		s.mockCodeGen.EXPECT().Generate().Return(s.testCode),
		s.mockSessionRepo.EXPECT().
			CodeExists(s.ctx, &sessionRepo.CodeExistsInput{Code: s.testCode}).
			Return(false, nil),
	)

	s.mockUUID.EXPECT().NewUUID().Return(s.testSessionID)
	s.mockSessionRepo.EXPECT().Save(s.ctx, gomock.Any()).Return(nil)

	out, err := s.gameService.CreateSession(s.ctx, nil)
	s.Require().NoError(err)
	s.Equal(s.testCode, out.Session.Code)
}

func (s *GameServiceTestSuite) TestCreateSessionCodeSpaceExhausted() {
	s.mockCodeGen.EXPECT().Generate().Return("TAKEN").Times(3)
	s.mockSessionRepo.EXPECT().
		CodeExists(s.ctx, gomock.Any()).
		Return(true, nil).
		Times(3)

	_, err := s.gameService.CreateSession(s.ctx, nil)
	s.Require().ErrorIs(err, game.ErrCodeSpaceExhausted)
}

func (s *GameServiceTestSuite) TestJoinSession() {
	s.mockSessionRepo.EXPECT().
		FindIDByCode(s.ctx, &sessionRepo.FindIDByCodeInput{Code: s.testCode}).
		Return(s.testSessionID, nil)
	s.expectLoad(s.lobbySession())
	s.mockUserRepo.EXPECT().
		DisplayNameFor(s.ctx, &userRepo.DisplayNameForInput{UserID: "p1"}).
		Return("Alice", nil)
	s.mockSessionRepo.EXPECT().Save(s.ctx, gomock.Any()).Return(nil)

	out, err := s.gameService.JoinSession(s.ctx, &game.JoinSessionInput{
		Code:     s.testCode,
		PlayerID: "p1",
	})
	s.Require().NoError(err)

	s.False(out.AlreadyJoined)
	s.Require().Len(out.Session.Players, 1)
	s.Equal("Alice", out.Session.Players[0].DisplayName)
}

func (s *GameServiceTestSuite) TestJoinSessionAlreadyJoinedSkipsSave() {
	existing := s.lobbySession(&models.Player{ID: "p1", DisplayName: "Alice"})

	s.mockSessionRepo.EXPECT().
		FindIDByCode(s.ctx, gomock.Any()).
		Return(s.testSessionID, nil)
	s.expectLoad(existing)
	s.mockUserRepo.EXPECT().
		DisplayNameFor(s.ctx, gomock.Any()).
		Return("Alice", nil)

	// No Save expectation: an idempotent re-join must not persist anything

	out, err := s.gameService.JoinSession(s.ctx, &game.JoinSessionInput{
		Code:     s.testCode,
		PlayerID: "p1",
	})
	s.Require().NoError(err)
	s.True(out.AlreadyJoined)
	s.Len(out.Session.Players, 1)
}

func (s *GameServiceTestSuite) TestJoinSessionUnknownCode() {
	s.mockSessionRepo.EXPECT().
		FindIDByCode(s.ctx, gomock.Any()).
		Return("", sessionRepo.ErrSessionNotFound)

	_, err := s.gameService.JoinSession(s.ctx, &game.JoinSessionInput{
		Code:     "ZZZZZ",
		PlayerID: "p1",
	})
	s.Require().ErrorIs(err, game.ErrSessionNotFound)
}

func (s *GameServiceTestSuite) TestJoinSessionFullRejectedWithoutSave() {
	existing := s.lobbySession(
		&models.Player{ID: "p1"},
		&models.Player{ID: "p2"},
	)

	s.mockSessionRepo.EXPECT().
		FindIDByCode(s.ctx, gomock.Any()).
		Return(s.testSessionID, nil)
	s.expectLoad(existing)
	s.mockUserRepo.EXPECT().
		DisplayNameFor(s.ctx, gomock.Any()).
		Return("Carol", nil)

	_, err := s.gameService.JoinSession(s.ctx, &game.JoinSessionInput{
		Code:     s.testCode,
		PlayerID: "p3",
	})
	s.Require().ErrorIs(err, game.ErrSessionFull)
}

func (s *GameServiceTestSuite) TestJoinSessionIdentityLookupFailureDegrades() {
	s.mockSessionRepo.EXPECT().
		FindIDByCode(s.ctx, gomock.Any()).
		Return(s.testSessionID, nil)
	s.expectLoad(s.lobbySession())
	s.mockUserRepo.EXPECT().
		DisplayNameFor(s.ctx, gomock.Any()).
		Return("", errors.New("redis: connection refused"))
	s.mockSessionRepo.EXPECT().Save(s.ctx, gomock.Any()).Return(nil)

	out, err := s.gameService.JoinSession(s.ctx, &game.JoinSessionInput{
		Code:     s.testCode,
		PlayerID: "p1",
	})
	s.Require().NoError(err)
	s.Equal("", out.Session.Players[0].DisplayName)
}

func (s *GameServiceTestSuite) TestSetReadyStartsSession() {
	existing := s.lobbySession(
		&models.Player{ID: "p1", Ready: true},
		&models.Player{ID: "p2", Ready: false},
	)

	s.expectLoad(existing)

	var saved *models.Session
	s.mockSessionRepo.EXPECT().
		Save(s.ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, input *sessionRepo.SaveInput) error {
			saved = input.Session
			return nil
		})

	out, err := s.gameService.SetReady(s.ctx, &game.SetReadyInput{
		SessionID: s.testSessionID,
		PlayerID:  "p2",
	})
	s.Require().NoError(err)

	s.Equal(models.PhaseImagining, out.Session.Phase)
	s.Equal(1, out.Session.CurrentRound)
	s.Equal(saved, out.Session)

	// The loaded snapshot was not mutated in place
	s.Equal(models.PhaseLobby, existing.Phase)
}

func (s *GameServiceTestSuite) TestSetReadyUnknownPlayerRejectedWithoutSave() {
	s.expectLoad(s.lobbySession(&models.Player{ID: "p1"}))

	_, err := s.gameService.SetReady(s.ctx, &game.SetReadyInput{
		SessionID: s.testSessionID,
		PlayerID:  "ghost",
	})
	s.Require().ErrorIs(err, game.ErrUnknownPlayer)
}

func (s *GameServiceTestSuite) TestSubmitPromptGeneratesRoundContent() {
	existing := s.lobbySession(
		&models.Player{ID: "p1", Ready: true},
		&models.Player{ID: "p2", Ready: true},
	)
	existing.Phase = models.PhaseImagining
	existing.SubmittedPrompts = map[string]string{"p1": "a fox playing chess"}

	s.expectLoad(existing)
	s.mockContent.EXPECT().
		GenerateImage(s.ctx, "a fox playing chess").
		Return("https://img.example/fox.png", nil)
	s.mockSessionRepo.EXPECT().Save(s.ctx, gomock.Any()).Return(nil)

	out, err := s.gameService.SubmitPrompt(s.ctx, &game.SubmitPromptInput{
		SessionID: s.testSessionID,
		PlayerID:  "p2",
		Prompt:    "a whale in a library",
	})
	s.Require().NoError(err)

	s.Equal(models.PhaseGuessing, out.Session.Phase)
	s.Equal("a fox playing chess", out.Session.CurrentPrompt)
	s.Equal("https://img.example/fox.png", out.Session.CurrentImage)
}

func (s *GameServiceTestSuite) TestSubmitPromptContentFailureIsNonFatal() {
	existing := s.lobbySession(
		&models.Player{ID: "p1", Ready: true},
		&models.Player{ID: "p2", Ready: true},
	)
	existing.Phase = models.PhaseImagining
	existing.SubmittedPrompts = map[string]string{"p1": "a fox playing chess"}

	s.expectLoad(existing)
	s.mockContent.EXPECT().
		GenerateImage(s.ctx, gomock.Any()).
		Return("", errors.New("provider down"))
	s.mockSessionRepo.EXPECT().Save(s.ctx, gomock.Any()).Return(nil)

	out, err := s.gameService.SubmitPrompt(s.ctx, &game.SubmitPromptInput{
		SessionID: s.testSessionID,
		PlayerID:  "p2",
		Prompt:    "a whale in a library",
	})
	s.Require().NoError(err)
	s.Equal(models.PhaseGuessing, out.Session.Phase)
	s.Equal("", out.Session.CurrentImage)
}

func (s *GameServiceTestSuite) TestSubmitGuessScoresCompletedRound() {
	existing := s.lobbySession(
		&models.Player{ID: "p1", Ready: true},
		&models.Player{ID: "p2", Ready: true},
	)
	existing.Phase = models.PhaseGuessing
	existing.SubmittedPrompts = map[string]string{
		"p1": "a fox playing chess",
		"p2": "a whale in a library",
	}
	existing.SubmittedGuesses = []models.Guess{
		{PlayerID: "p1", TargetID: "p2", Text: "a whale reading"},
	}

	s.expectLoad(existing)
	s.mockScorer.EXPECT().
		Score(s.ctx, "a whale in a library", "a whale reading").
		Return(82, nil)
	s.mockScorer.EXPECT().
		Score(s.ctx, "a fox playing chess", "a fox at a board game").
		Return(64, nil)

	var saved *models.Session
	s.mockSessionRepo.EXPECT().
		Save(s.ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, input *sessionRepo.SaveInput) error {
			saved = input.Session
			return nil
		})

	out, err := s.gameService.SubmitGuess(s.ctx, &game.SubmitGuessInput{
		SessionID: s.testSessionID,
		PlayerID:  "p2",
		TargetID:  "p1",
		Guess:     "a fox at a board game",
	})
	s.Require().NoError(err)

	s.Equal(models.PhaseImagining, out.Session.Phase)
	s.Equal(2, out.Session.CurrentRound)
	s.Equal(82, out.Session.Player("p1").Score)
	s.Equal(64, out.Session.Player("p2").Score)
	s.Empty(out.Session.SubmittedPrompts)
	s.Empty(out.Session.SubmittedGuesses)
	s.Equal(saved, out.Session)
}

func (s *GameServiceTestSuite) TestSubmitGuessScorerFailureLeavesStateUnsaved() {
	existing := s.lobbySession(
		&models.Player{ID: "p1", Ready: true},
		&models.Player{ID: "p2", Ready: true},
	)
	existing.Phase = models.PhaseGuessing
	existing.SubmittedPrompts = map[string]string{
		"p1": "a fox playing chess",
		"p2": "a whale in a library",
	}
	existing.SubmittedGuesses = []models.Guess{
		{PlayerID: "p1", TargetID: "p2", Text: "a whale reading"},
	}

	s.expectLoad(existing)
	s.mockScorer.EXPECT().
		Score(s.ctx, gomock.Any(), gomock.Any()).
		Return(0, errors.New("embedding service down"))

	// No Save expectation: the failed action must not persist

	_, err := s.gameService.SubmitGuess(s.ctx, &game.SubmitGuessInput{
		SessionID: s.testSessionID,
		PlayerID:  "p2",
		TargetID:  "p1",
		Guess:     "a fox at a board game",
	})
	s.Require().Error(err)
}

func (s *GameServiceTestSuite) TestSubmitGuessWrongPhase() {
	s.expectLoad(s.lobbySession(
		&models.Player{ID: "p1"},
		&models.Player{ID: "p2"},
	))

	_, err := s.gameService.SubmitGuess(s.ctx, &game.SubmitGuessInput{
		SessionID: s.testSessionID,
		PlayerID:  "p1",
		TargetID:  "p2",
		Guess:     "too early",
	})
	s.Require().ErrorIs(err, game.ErrWrongPhase)
}

func (s *GameServiceTestSuite) TestGetSession() {
	existing := s.lobbySession(&models.Player{ID: "p1"})
	s.expectLoad(existing)

	out, err := s.gameService.GetSession(s.ctx, &game.GetSessionInput{
		SessionID: s.testSessionID,
	})
	s.Require().NoError(err)
	s.Equal(existing, out.Session)
}

func (s *GameServiceTestSuite) TestGetSessionNotFound() {
	s.mockSessionRepo.EXPECT().
		Load(s.ctx, gomock.Any()).
		Return(nil, sessionRepo.ErrSessionNotFound)

	_, err := s.gameService.GetSession(s.ctx, &game.GetSessionInput{
		SessionID: "missing",
	})
	s.Require().ErrorIs(err, game.ErrSessionNotFound)
}

func (s *GameServiceTestSuite) TestStoreFailureWrapsStoreUnavailable() {
	s.mockSessionRepo.EXPECT().
		Load(s.ctx, gomock.Any()).
		Return(nil, errors.New("redis: connection refused"))

	_, err := s.gameService.GetSession(s.ctx, &game.GetSessionInput{
		SessionID: s.testSessionID,
	})
	s.Require().ErrorIs(err, game.ErrStoreUnavailable)
}
