package service

import (
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aliskhannn/placename-quiz-bot/internal/domain/entities"
)

// ErrInsufficientData is returned when the (filtered) pool has fewer than four places.
var ErrInsufficientData = errors.New("not enough places to build a question")

const distractorCount = entities.ChoiceCount - 1

// QuizGenerator builds multiple choice questions from a catalog.
// It holds no state besides its random source.
type QuizGenerator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewQuizGenerator creates a generator drawing from rng.
func NewQuizGenerator(rng *rand.Rand) *QuizGenerator {
	return &QuizGenerator{rng: rng}
}

// NewDefaultQuizGenerator creates a generator seeded from the clock.
func NewDefaultQuizGenerator() *QuizGenerator {
	return NewQuizGenerator(rand.New(rand.NewSource(time.Now().UnixNano())))
}

// FilterPool returns the places eligible under filter.
// An unrestricted filter returns the catalog itself.
func FilterPool(catalog []entities.Place, filter entities.ImportanceFilter) []entities.Place {
	if filter.Unrestricted() {
		return catalog
	}

	pool := make([]entities.Place, 0, len(catalog))
	for _, p := range catalog {
		if filter.Allows(p.Tier()) {
			pool = append(pool, p)
		}
	}
	return pool
}

// Generate picks a target and three distinct distractors uniformly at random
// and returns them in a uniformly shuffled order.
func (g *QuizGenerator) Generate(catalog []entities.Place, filter entities.ImportanceFilter) (*entities.Question, error) {
	pool := FilterPool(catalog, filter)
	if len(pool) < entities.ChoiceCount {
		return nil, ErrInsufficientData
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	target := g.rng.Intn(len(pool))

	// Partial Fisher-Yates over every index except the target.
	rest := make([]int, 0, len(pool)-1)
	for i := range pool {
		if i != target {
			rest = append(rest, i)
		}
	}
	for i := 0; i < distractorCount; i++ {
		j := i + g.rng.Intn(len(rest)-i)
		rest[i], rest[j] = rest[j], rest[i]
	}

	picked := [entities.ChoiceCount]int{target, rest[0], rest[1], rest[2]}
	for i := len(picked) - 1; i > 0; i-- {
		j := g.rng.Intn(i + 1)
		picked[i], picked[j] = picked[j], picked[i]
	}

	q := &entities.Question{
		ID:         uuid.NewString(),
		TargetID:   pool[target].ID,
		PromptText: pool[target].NativeString,
	}
	for i, idx := range picked {
		q.Choices[i] = entities.Choice{
			ID:   pool[idx].ID,
			Text: pool[idx].PrimaryAnswer,
		}
	}

	return q, nil
}
