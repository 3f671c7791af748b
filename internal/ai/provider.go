package ai

import "context"

//go:generate mockgen -package=mocks -destination=mocks/mock_provider.go github.com/guess-ai/backend/internal/ai Provider

// Provider is the content-generation capability consumed by the game:
// text completion, prompt-to-image generation and text embeddings.
type Provider interface {
	Complete(ctx context.Context, prompt string) (string, error)
	GenerateImage(ctx context.Context, prompt string) (string, error)
	EmbedTexts(ctx context.Context, texts []string) ([][]float64, error)
}

// Config for AI providers
type Config struct {
	APIKey         string
	BaseURL        string
	ChatModel      string
	ImageModel     string
	EmbeddingModel string
}
