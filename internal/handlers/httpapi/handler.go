package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/guess-ai/backend/internal/ai"
	"github.com/guess-ai/backend/internal/common/clock"
	"github.com/guess-ai/backend/internal/common/uuid"
	"github.com/guess-ai/backend/internal/models"
	userRepo "github.com/guess-ai/backend/internal/repositories/user"
	"github.com/guess-ai/backend/internal/services/game"
)

// Config holds the dependencies of the HTTP handler layer
type Config struct {
	GameService game.Service
	UserRepo    userRepo.Repository
	Provider    ai.Provider
	Clock       clock.Clock
	UUID        uuid.UUID
}

// Handler exposes the game over a JSON HTTP API
type Handler struct {
	gameService game.Service
	userRepo    userRepo.Repository
	provider    ai.Provider
	clock       clock.Clock
	uuid        uuid.UUID
}

// New creates a new HTTP handler
func New(cfg *Config) (*Handler, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if cfg.GameService == nil {
		return nil, errors.New("game service is required")
	}
	if cfg.UserRepo == nil {
		return nil, errors.New("user repository is required")
	}
	if cfg.Provider == nil {
		return nil, errors.New("AI provider is required")
	}

	h := &Handler{
		gameService: cfg.GameService,
		userRepo:    cfg.UserRepo,
		provider:    cfg.Provider,
		clock:       cfg.Clock,
		uuid:        cfg.UUID,
	}

	if h.clock == nil {
		h.clock = clock.New()
	}
	if h.uuid == nil {
		h.uuid = uuid.New()
	}

	return h, nil
}

// Register mounts all routes on the given router
func (h *Handler) Register(r *gin.Engine) {
	r.GET("/health", h.health)

	r.POST("/users", h.createUser)

	r.POST("/games", h.createGame)
	r.POST("/games/join", h.joinGame)
	r.POST("/games/ready", h.setReady)
	r.POST("/games/prompt", h.submitPrompt)
	r.POST("/games/guess", h.submitGuess)
	r.GET("/games/:id", h.getGame)

	aiGroup := r.Group("/ai")
	aiGroup.POST("/generate_chat", h.generateChat)
	aiGroup.POST("/generate_image", h.generateImage)
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "time": h.clock.Now().UTC()})
}

func (h *Handler) createUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username is required"})
		return
	}

	user := &models.User{
		ID:        h.uuid.NewUUID(),
		Username:  req.Username,
		CreatedAt: h.clock.Now(),
	}

	err := h.userRepo.SaveUser(c.Request.Context(), &userRepo.SaveUserInput{
		User: user,
	})
	if err != nil {
		if errors.Is(err, userRepo.ErrUsernameTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": "username already exists"})
			return
		}
		h.internalError(c, err)
		return
	}

	c.JSON(http.StatusCreated, CreateUserResponse{UserID: user.ID})
}

func (h *Handler) createGame(c *gin.Context) {
	// The body is optional; settings fall back to the service defaults
	var req CreateGameRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request body"})
			return
		}
	}

	out, err := h.gameService.CreateSession(c.Request.Context(), &game.CreateSessionInput{
		TotalRounds: req.TotalRounds,
	})
	if err != nil {
		h.gameError(c, err)
		return
	}

	c.JSON(http.StatusCreated, out.Session)
}

func (h *Handler) joinGame(c *gin.Context) {
	var req JoinGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "code and playerId are required"})
		return
	}

	out, err := h.gameService.JoinSession(c.Request.Context(), &game.JoinSessionInput{
		Code:     req.Code,
		PlayerID: req.PlayerID,
	})
	if err != nil {
		h.gameError(c, err)
		return
	}

	c.JSON(http.StatusOK, out.Session)
}

func (h *Handler) setReady(c *gin.Context) {
	var req ReadyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sessionId and playerId are required"})
		return
	}

	out, err := h.gameService.SetReady(c.Request.Context(), &game.SetReadyInput{
		SessionID: req.SessionID,
		PlayerID:  req.PlayerID,
	})
	if err != nil {
		h.gameError(c, err)
		return
	}

	c.JSON(http.StatusOK, out.Session)
}

func (h *Handler) submitPrompt(c *gin.Context) {
	var req PromptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sessionId, playerId and prompt are required"})
		return
	}

	out, err := h.gameService.SubmitPrompt(c.Request.Context(), &game.SubmitPromptInput{
		SessionID: req.SessionID,
		PlayerID:  req.PlayerID,
		Prompt:    req.Prompt,
	})
	if err != nil {
		h.gameError(c, err)
		return
	}

	c.JSON(http.StatusOK, out.Session)
}

func (h *Handler) submitGuess(c *gin.Context) {
	var req GuessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sessionId, playerId, targetId and guess are required"})
		return
	}

	out, err := h.gameService.SubmitGuess(c.Request.Context(), &game.SubmitGuessInput{
		SessionID: req.SessionID,
		PlayerID:  req.PlayerID,
		TargetID:  req.TargetID,
		Guess:     req.Guess,
	})
	if err != nil {
		h.gameError(c, err)
		return
	}

	c.JSON(http.StatusOK, out.Session)
}

func (h *Handler) getGame(c *gin.Context) {
	out, err := h.gameService.GetSession(c.Request.Context(), &game.GetSessionInput{
		SessionID: c.Param("id"),
	})
	if err != nil {
		h.gameError(c, err)
		return
	}

	c.JSON(http.StatusOK, out.Session)
}

func (h *Handler) generateChat(c *gin.Context) {
	var req GenerateChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "prompt is required"})
		return
	}

	text, err := h.provider.Complete(c.Request.Context(), req.Prompt)
	if err != nil {
		h.internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"text": text})
}

func (h *Handler) generateImage(c *gin.Context) {
	var req GenerateImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "prompt is required"})
		return
	}

	url, err := h.provider.GenerateImage(c.Request.Context(), req.Prompt)
	if err != nil {
		h.internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}

// gameError maps a game service error to an HTTP status
func (h *Handler) gameError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, game.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, game.ErrUnknownPlayer):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, game.ErrSessionFull),
		errors.Is(err, game.ErrWrongPhase),
		errors.Is(err, game.ErrSelfGuess):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, game.ErrStoreUnavailable):
		h.serviceUnavailable(c, err)
	default:
		h.internalError(c, err)
	}
}

func (h *Handler) internalError(c *gin.Context, err error) {
	log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}

func (h *Handler) serviceUnavailable(c *gin.Context, err error) {
	log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("store unavailable")
	c.JSON(http.StatusServiceUnavailable, gin.H{"error": "store unavailable"})
}
