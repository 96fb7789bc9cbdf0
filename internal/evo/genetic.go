package evo

import (
	"fmt"

	"evogame/internal/model"
	"evogame/internal/rng"
)

// GeneticAlgorithm breeds the next generation of bitstring strategies.
//
// Draw order per offspring: parent A tournament, parent B tournament, the
// crossover decision, the cut (only when crossing over), then one mutation
// draw per symbol. Offspring are produced in population order.
type GeneticAlgorithm struct {
	Selector  Selector
	Crossover SinglePointCrossover
	Mutation  BitFlipMutation
}

func NewGeneticAlgorithm(tournamentSize int, crossoverRate, mutationRate float64) GeneticAlgorithm {
	return GeneticAlgorithm{
		Selector:  TournamentSelector{TournamentSize: tournamentSize},
		Crossover: SinglePointCrossover{Rate: crossoverRate},
		Mutation:  BitFlipMutation{Rate: mutationRate},
	}
}

// Offspring produces one child from the scored generation.
func (g GeneticAlgorithm) Offspring(stream *rng.Stream, scored []ScoredStrategy) (model.Strategy, error) {
	parentA, err := g.Selector.PickParent(stream, scored)
	if err != nil {
		return "", fmt.Errorf("select parent a: %w", err)
	}
	parentB, err := g.Selector.PickParent(stream, scored)
	if err != nil {
		return "", fmt.Errorf("select parent b: %w", err)
	}
	child := g.Crossover.Apply(stream, parentA, parentB)
	return g.Mutation.Apply(stream, child), nil
}

// NextGeneration breeds size children from population and its scores.
func (g GeneticAlgorithm) NextGeneration(stream *rng.Stream, population []model.Strategy, scores []int, size int) ([]model.Strategy, error) {
	if g.Selector == nil {
		return nil, fmt.Errorf("selector is required")
	}
	if len(population) != len(scores) {
		return nil, fmt.Errorf("score mismatch: population=%d scores=%d", len(population), len(scores))
	}
	scored := make([]ScoredStrategy, len(population))
	for i := range population {
		scored[i] = ScoredStrategy{Strategy: population[i], Fitness: scores[i]}
	}

	next := make([]model.Strategy, 0, size)
	for len(next) < size {
		child, err := g.Offspring(stream, scored)
		if err != nil {
			return nil, err
		}
		next = append(next, child)
	}
	return next, nil
}

// SummarizeGeneration reports the best (first maximal), mean and distinct
// strategy counts for one scored generation.
func SummarizeGeneration(population []model.Strategy, scores []int) model.GeneticStats {
	if len(population) == 0 {
		return model.GeneticStats{}
	}
	bestIdx := 0
	total := 0
	unique := make(map[model.Strategy]struct{}, len(population))
	for i, s := range population {
		if scores[i] > scores[bestIdx] {
			bestIdx = i
		}
		total += scores[i]
		unique[s] = struct{}{}
	}
	return model.GeneticStats{
		BestFitness:      scores[bestIdx],
		AverageFitness:   float64(total) / float64(len(population)),
		UniqueStrategies: len(unique),
		BestStrategy:     population[bestIdx],
	}
}
