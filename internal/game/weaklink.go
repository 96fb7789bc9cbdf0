// Package game scores strategies: the weak-link effort game and the
// target-matching bitstring game.
package game

import (
	"fmt"

	"evogame/internal/model"
)

// Cost is what an agent pays for its own effort.
func Cost(e model.Effort) float64 {
	switch e {
	case model.Low:
		return 0
	case model.Medium:
		return 5
	case model.High:
		return 10
	default:
		panic(fmt.Sprintf("cost: unhandled effort %s", e))
	}
}

// Benefit is what every member of a group receives for the group minimum.
func Benefit(e model.Effort) float64 {
	switch e {
	case model.Low:
		return 0
	case model.Medium:
		return 10
	case model.High:
		return 100
	default:
		panic(fmt.Sprintf("benefit: unhandled effort %s", e))
	}
}

// Minimum returns the least effort in efforts. An empty slice yields High.
func Minimum(efforts []model.Effort) model.Effort {
	min := model.High
	for _, e := range efforts {
		if e < min {
			min = e
		}
	}
	return min
}

// Payoff is benefit(group minimum) - cost(own effort).
func Payoff(own, groupMin model.Effort) float64 {
	return Benefit(groupMin) - Cost(own)
}

// ScoreGroups writes each agent's payoff for the round. Groups are scored
// independently; an agent's payoff depends only on its own group.
func ScoreGroups(agents []model.Agent, groups [][]int) {
	efforts := make([]model.Effort, 0, len(agents))
	for _, group := range groups {
		efforts = efforts[:0]
		for _, idx := range group {
			efforts = append(efforts, agents[idx].Effort)
		}
		groupMin := Minimum(efforts)
		for _, idx := range group {
			agents[idx].Payoff = Payoff(agents[idx].Effort, groupMin)
		}
	}
}
