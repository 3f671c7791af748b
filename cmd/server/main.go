package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/guess-ai/backend/internal/ai/openai"
	"github.com/guess-ai/backend/internal/config"
	"github.com/guess-ai/backend/internal/gamecode"
	"github.com/guess-ai/backend/internal/handlers/httpapi"
	sessionRepo "github.com/guess-ai/backend/internal/repositories/session"
	userRepo "github.com/guess-ai/backend/internal/repositories/user"
	"github.com/guess-ai/backend/internal/scoring"
	gameService "github.com/guess-ai/backend/internal/services/game"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})

	cfg := config.FromEnv()

	// Initialize Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})

	// Test Redis connection
	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}

	// Initialize repositories
	sessions, err := sessionRepo.NewRedis(&sessionRepo.Config{
		RedisClient: redisClient,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create session repository")
	}

	users, err := userRepo.NewRedis(&userRepo.Config{
		RedisClient: redisClient,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create user repository")
	}

	// Initialize AI provider and scorer
	provider := openai.New(&openai.Config{
		APIKey:         cfg.OpenAIKey,
		BaseURL:        cfg.OpenAIBaseURL,
		ChatModel:      cfg.ChatModel,
		ImageModel:     cfg.ImageModel,
		EmbeddingModel: cfg.EmbedModel,
	})

	scorer, err := scoring.New(&scoring.Config{
		Embedder: provider,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create scorer")
	}

	// Initialize game service
	gameSvc, err := gameService.New(&gameService.Config{
		SessionRepo:     sessions,
		UserRepo:        users,
		CodeGenerator:   gamecode.New(&gamecode.Config{}),
		Scorer:          scorer,
		ContentProvider: provider,
		TotalRounds:     cfg.TotalRounds,
		MinPlayers:      cfg.MinPlayers,
		MaxPlayers:      cfg.MaxPlayers,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create game service")
	}

	handler, err := httpapi.New(&httpapi.Config{
		GameService: gameSvc,
		UserRepo:    users,
		Provider:    provider,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create HTTP handler")
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(httpapi.RequestLogger())
	router.Use(httpapi.CORS([]string{
		"https://guess-ai.app",
		"http://localhost:3000",
	}))
	handler.Register(router)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown failed")
	}

	if err := redisClient.Close(); err != nil {
		log.Error().Err(err).Msg("error closing Redis client")
	}

	log.Info().Msg("server has been shut down")
}
