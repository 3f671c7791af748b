package gamecode

import (
	"math/rand"
	"sync"
	"time"
)

//go:generate mockgen -package=mocks -destination=mocks/mock_generator.go github.com/guess-ai/backend/internal/gamecode Generator

const (
	// Alphabet is the character set codes are drawn from
	Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	// Length is the number of characters in a generated code
	Length = 5
)

// Generator produces short join codes for game sessions. Uniqueness is the
// caller's responsibility; generated codes must be checked against the
// session store before use.
type Generator interface {
	Generate() string
}

// Config for the code generator
type Config struct {
	// Optional seed for testing
	Seed int64
}

// DefaultGenerator implements Generator with a seedable random source.
// Safe for concurrent use; rand.Rand is not, so draws are serialized.
type DefaultGenerator struct {
	mu     sync.Mutex
	random *rand.Rand
}

// New creates a new code generator
func New(cfg *Config) *DefaultGenerator {
	var seed int64
	if cfg != nil && cfg.Seed != 0 {
		seed = cfg.Seed
	} else {
		seed = time.Now().UnixNano()
	}

	source := rand.NewSource(seed)
	random := rand.New(source)

	return &DefaultGenerator{
		random: random,
	}
}

// Generate returns a fixed-length code drawn uniformly from the alphabet
func (g *DefaultGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	code := make([]byte, Length)
	for i := range code {
		code[i] = Alphabet[g.random.Intn(len(Alphabet))]
	}
	return string(code)
}
