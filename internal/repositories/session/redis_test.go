package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/guess-ai/backend/internal/models"
)

type RedisRepositoryTestSuite struct {
	suite.Suite
	mr      *miniredis.Miniredis
	client  *redis.Client
	repo    Repository
	testNow time.Time
}

func (s *RedisRepositoryTestSuite) SetupTest() {
	// Create a new miniredis server for each test
	mr, err := miniredis.Run()
	s.Require().NoError(err)
	s.mr = mr

	s.client = redis.NewClient(&redis.Options{
		Addr: s.mr.Addr(),
	})

	repo, err := NewRedis(&Config{
		RedisClient: s.client,
	})
	s.Require().NoError(err)
	s.repo = repo

	s.testNow = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
}

func (s *RedisRepositoryTestSuite) TearDownTest() {
	s.client.Close()
	s.mr.Close()
}

func TestRedisRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RedisRepositoryTestSuite))
}

func (s *RedisRepositoryTestSuite) newTestSession() *models.Session {
	return &models.Session{
		ID:           "test-session-id",
		Code:         "AB12C",
		Phase:        models.PhaseLobby,
		CurrentRound: 1,
		TotalRounds:  3,
		Players: []*models.Player{
			{ID: "p1", DisplayName: "Alice", Score: 0, Ready: false},
		},
		SubmittedPrompts: map[string]string{},
		SubmittedGuesses: []models.Guess{},
		CreatedAt:        s.testNow,
		UpdatedAt:        s.testNow,
	}
}

func (s *RedisRepositoryTestSuite) TestSaveAndLoad() {
	sess := s.newTestSession()
	sess.SubmittedPrompts["p1"] = "a cat in a hat"
	sess.SubmittedGuesses = append(sess.SubmittedGuesses, models.Guess{
		PlayerID: "p2",
		TargetID: "p1",
		Text:     "cat with hat",
	})

	err := s.repo.Save(context.Background(), &SaveInput{
		Session: sess,
	})
	s.Require().NoError(err)

	loaded, err := s.repo.Load(context.Background(), &LoadInput{
		SessionID: "test-session-id",
	})
	s.Require().NoError(err)
	s.Require().NotNil(loaded)

	s.Equal("test-session-id", loaded.ID)
	s.Equal("AB12C", loaded.Code)
	s.Equal(models.PhaseLobby, loaded.Phase)
	s.Equal(1, loaded.CurrentRound)
	s.Equal(3, loaded.TotalRounds)
	s.Len(loaded.Players, 1)
	s.Equal("Alice", loaded.Players[0].DisplayName)
	s.Equal("a cat in a hat", loaded.SubmittedPrompts["p1"])
	s.Len(loaded.SubmittedGuesses, 1)
	s.Equal("p2", loaded.SubmittedGuesses[0].PlayerID)
	s.Equal(s.testNow.Unix(), loaded.CreatedAt.Unix())
}

func (s *RedisRepositoryTestSuite) TestLoadNotFound() {
	_, err := s.repo.Load(context.Background(), &LoadInput{
		SessionID: "missing",
	})
	s.Require().ErrorIs(err, ErrSessionNotFound)
}

func (s *RedisRepositoryTestSuite) TestFindIDByCode() {
	sess := s.newTestSession()

	err := s.repo.Save(context.Background(), &SaveInput{
		Session: sess,
	})
	s.Require().NoError(err)

	id, err := s.repo.FindIDByCode(context.Background(), &FindIDByCodeInput{
		Code: "AB12C",
	})
	s.Require().NoError(err)
	s.Equal("test-session-id", id)

	_, err = s.repo.FindIDByCode(context.Background(), &FindIDByCodeInput{
		Code: "ZZZZZ",
	})
	s.Require().ErrorIs(err, ErrSessionNotFound)
}

func (s *RedisRepositoryTestSuite) TestCodeExists() {
	exists, err := s.repo.CodeExists(context.Background(), &CodeExistsInput{
		Code: "AB12C",
	})
	s.Require().NoError(err)
	s.False(exists)

	err = s.repo.Save(context.Background(), &SaveInput{
		Session: s.newTestSession(),
	})
	s.Require().NoError(err)

	exists, err = s.repo.CodeExists(context.Background(), &CodeExistsInput{
		Code: "AB12C",
	})
	s.Require().NoError(err)
	s.True(exists)
}

func (s *RedisRepositoryTestSuite) TestCompletedSessionReleasesCode() {
	sess := s.newTestSession()

	err := s.repo.Save(context.Background(), &SaveInput{
		Session: sess,
	})
	s.Require().NoError(err)

	// Completing the session frees its code and drops it from the active set
	sess.Phase = models.PhaseComplete
	err = s.repo.Save(context.Background(), &SaveInput{
		Session: sess,
	})
	s.Require().NoError(err)

	exists, err := s.repo.CodeExists(context.Background(), &CodeExistsInput{
		Code: "AB12C",
	})
	s.Require().NoError(err)
	s.False(exists)

	active, err := s.repo.GetActiveSessions(context.Background(), &GetActiveSessionsInput{})
	s.Require().NoError(err)
	s.Empty(active.Sessions)

	// The session blob itself remains loadable
	loaded, err := s.repo.Load(context.Background(), &LoadInput{
		SessionID: "test-session-id",
	})
	s.Require().NoError(err)
	s.Equal(models.PhaseComplete, loaded.Phase)
}

func (s *RedisRepositoryTestSuite) TestGetActiveSessions() {
	first := s.newTestSession()

	second := s.newTestSession()
	second.ID = "other-session-id"
	second.Code = "XY99Z"

	s.Require().NoError(s.repo.Save(context.Background(), &SaveInput{Session: first}))
	s.Require().NoError(s.repo.Save(context.Background(), &SaveInput{Session: second}))

	active, err := s.repo.GetActiveSessions(context.Background(), &GetActiveSessionsInput{})
	s.Require().NoError(err)
	s.Len(active.Sessions, 2)
}

func (s *RedisRepositoryTestSuite) TestDelete() {
	sess := s.newTestSession()

	s.Require().NoError(s.repo.Save(context.Background(), &SaveInput{Session: sess}))

	err := s.repo.Delete(context.Background(), &DeleteInput{
		SessionID: "test-session-id",
	})
	s.Require().NoError(err)

	_, err = s.repo.Load(context.Background(), &LoadInput{
		SessionID: "test-session-id",
	})
	s.Require().ErrorIs(err, ErrSessionNotFound)

	exists, err := s.repo.CodeExists(context.Background(), &CodeExistsInput{
		Code: "AB12C",
	})
	s.Require().NoError(err)
	s.False(exists)
}
