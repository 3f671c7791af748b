package scoring

import (
	"context"
	"errors"
	"fmt"
	"math"
)

//go:generate mockgen -package=mocks -destination=mocks/mock_embedder.go github.com/guess-ai/backend/internal/scoring Embedder

const (
	// MinScore is the lowest possible similarity score
	MinScore = 0

	// MaxScore is the highest possible similarity score
	MaxScore = 100
)

// Embedder maps texts to fixed-dimension numeric vectors
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float64, error)
}

// Config holds configuration for the scorer
type Config struct {
	// Embedder used to vectorize texts before comparison
	Embedder Embedder
}

// Scorer grades how closely a candidate text matches a reference text
type Scorer struct {
	embedder Embedder
}

// New creates a new embedding-backed scorer
func New(cfg *Config) (*Scorer, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.Embedder == nil {
		return nil, errors.New("embedder cannot be nil")
	}

	return &Scorer{
		embedder: cfg.Embedder,
	}, nil
}

// Score embeds both texts and returns their closeness on the
// [MinScore, MaxScore] scale
func (s *Scorer) Score(ctx context.Context, reference, candidate string) (int, error) {
	vectors, err := s.embedder.EmbedTexts(ctx, []string{reference, candidate})
	if err != nil {
		return 0, fmt.Errorf("failed to embed texts: %w", err)
	}

	if len(vectors) != 2 {
		return 0, fmt.Errorf("expected 2 embedding vectors, got %d", len(vectors))
	}

	return ScoreVectors(vectors[0], vectors[1]), nil
}

// ScoreVectors grades two embedding vectors on the [MinScore, MaxScore]
// scale. A zero-magnitude vector scores MinScore instead of dividing by
// zero.
func ScoreVectors(a, b []float64) int {
	similarity, ok := CosineSimilarity(a, b)
	if !ok {
		return MinScore
	}
	return ScoreFromSimilarity(similarity)
}

// CosineSimilarity computes the cosine of the angle between two vectors,
// in [-1, 1]. The second return value is false when either vector has zero
// magnitude and the similarity is undefined.
func CosineSimilarity(a, b []float64) (float64, bool) {
	var dot, magA, magB float64
	for i := 0; i < len(a) && i < len(b); i++ {
		dot += a[i] * b[i]
		magA += a[i] * a[i]
		magB += b[i] * b[i]
	}

	magA = math.Sqrt(magA)
	magB = math.Sqrt(magB)

	if magA == 0 || magB == 0 {
		return 0, false
	}

	return dot / (magA * magB), true
}

// ScoreFromSimilarity maps a cosine similarity in [-1, 1] onto the
// [MinScore, MaxScore] integer scale, rounding half away from zero
func ScoreFromSimilarity(similarity float64) int {
	score := int(math.Round(similarity*50 + 50))

	if score < MinScore {
		return MinScore
	}
	if score > MaxScore {
		return MaxScore
	}
	return score
}
