package game

import (
	"evogame/internal/model"
	"evogame/internal/rng"
)

// Similarity counts positions where candidate matches target.
func Similarity(candidate, target model.Strategy) int {
	n := min(len(candidate), len(target))
	matches := 0
	for i := 0; i < n; i++ {
		if candidate[i] == target[i] {
			matches++
		}
	}
	return matches
}

// RandomStrategy draws length symbols from {0,1}, one draw per symbol.
func RandomStrategy(stream *rng.Stream, length int) model.Strategy {
	bits := make([]byte, length)
	for i := range bits {
		bits[i] = rng.Pick(stream, model.Bits)
	}
	return model.Strategy(bits)
}

// ScoreStrategies returns the similarity of every strategy to target.
func ScoreStrategies(population []model.Strategy, target model.Strategy) []int {
	scores := make([]int, len(population))
	for i, s := range population {
		scores[i] = Similarity(s, target)
	}
	return scores
}
