package evo

import (
	"math"

	"evogame/internal/model"
	"evogame/internal/rng"
)

// SocialLearning is the imitate-the-best rule: after payoffs are known, each
// agent adopts the best-performing effort with probability LearningRate.
type SocialLearning struct {
	LearningRate float64
}

func (SocialLearning) Name() string {
	return "imitate_best"
}

// MeanPayoffs returns the mean payoff per effort, indexed by effort. Efforts
// nobody plays are -Inf and can never be imitated.
func MeanPayoffs(agents []model.Agent) [model.NumEfforts]float64 {
	var sum [model.NumEfforts]float64
	var count [model.NumEfforts]int
	for _, a := range agents {
		sum[a.Effort] += a.Payoff
		count[a.Effort]++
	}
	var mean [model.NumEfforts]float64
	for _, e := range model.Efforts {
		if count[e] == 0 {
			mean[e] = math.Inf(-1)
			continue
		}
		mean[e] = sum[e] / float64(count[e])
	}
	return mean
}

// BestEffort scans Low, Medium, High and keeps the first strictly greatest
// mean, so ties resolve toward lower effort.
func BestEffort(agents []model.Agent) model.Effort {
	mean := MeanPayoffs(agents)
	best := model.Low
	for _, e := range model.Efforts {
		if mean[e] > mean[best] {
			best = e
		}
	}
	return best
}

// Update draws once per agent in population order, whether or not the agent
// adopts best. after, when non-nil, runs right after each agent's draw and
// may consume further draws of its own.
func (r SocialLearning) Update(stream *rng.Stream, agents []model.Agent, best model.Effort, after func(*model.Agent)) {
	for i := range agents {
		if stream.Next() < r.LearningRate {
			agents[i].Effort = best
		}
		if after != nil {
			after(&agents[i])
		}
	}
}

// SummarizeRound reports effort shares, the minimum effort and the mean
// payoff for the population as it stands.
func SummarizeRound(agents []model.Agent) model.CooperationStats {
	if len(agents) == 0 {
		return model.CooperationStats{}
	}
	var count [model.NumEfforts]int
	total := 0.0
	min := model.High
	for _, a := range agents {
		count[a.Effort]++
		total += a.Payoff
		if a.Effort < min {
			min = a.Effort
		}
	}
	n := float64(len(agents))
	return model.CooperationStats{
		ShareLow:      float64(count[model.Low]) / n,
		ShareMedium:   float64(count[model.Medium]) / n,
		ShareHigh:     float64(count[model.High]) / n,
		AveragePayoff: total / n,
		Minimum:       min,
	}
}
