package evo

import (
	"fmt"

	"evogame/internal/model"
	"evogame/internal/rng"
)

// ScoredStrategy pairs a strategy with its fitness for the current generation.
type ScoredStrategy struct {
	Strategy model.Strategy
	Fitness  int
}

// Selector chooses a parent from the scored generation.
type Selector interface {
	Name() string
	PickParent(stream *rng.Stream, scored []ScoredStrategy) (model.Strategy, error)
}

// TournamentSelector draws TournamentSize indices uniformly with replacement
// and returns the fittest; the first-drawn candidate wins ties.
type TournamentSelector struct {
	TournamentSize int
}

func (TournamentSelector) Name() string {
	return "tournament"
}

func (s TournamentSelector) PickParent(stream *rng.Stream, scored []ScoredStrategy) (model.Strategy, error) {
	if stream == nil {
		return "", fmt.Errorf("random stream is required")
	}
	if len(scored) == 0 {
		return "", fmt.Errorf("cannot select from an empty generation")
	}
	if s.TournamentSize <= 0 {
		return "", fmt.Errorf("invalid tournament size: %d", s.TournamentSize)
	}

	best := scored[stream.NextInt(len(scored))]
	for i := 1; i < s.TournamentSize; i++ {
		candidate := scored[stream.NextInt(len(scored))]
		if candidate.Fitness > best.Fitness {
			best = candidate
		}
	}
	return best.Strategy, nil
}
