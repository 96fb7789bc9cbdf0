package evo

import (
	"math"
	"testing"

	"evogame/internal/model"
	"evogame/internal/rng"
)

func agentsWith(pairs ...any) []model.Agent {
	out := make([]model.Agent, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		out = append(out, model.Agent{Effort: pairs[i].(model.Effort), Payoff: pairs[i+1].(float64)})
	}
	return out
}

func TestBestEffortPrefersHigherMean(t *testing.T) {
	agents := agentsWith(model.Low, 0.0, model.Medium, 5.0, model.High, 90.0, model.High, 80.0)
	if got := BestEffort(agents); got != model.High {
		t.Fatalf("best=%s want H", got)
	}
}

func TestBestEffortTieBreaksTowardLow(t *testing.T) {
	agents := agentsWith(model.High, 0.0, model.Medium, 0.0, model.Low, 0.0)
	if got := BestEffort(agents); got != model.Low {
		t.Fatalf("best=%s want L", got)
	}
	agents = agentsWith(model.High, 5.0, model.Medium, 5.0)
	if got := BestEffort(agents); got != model.Medium {
		t.Fatalf("best=%s want M", got)
	}
}

func TestBestEffortIgnoresUnplayedEfforts(t *testing.T) {
	agents := agentsWith(model.High, -10.0, model.High, -10.0)
	if got := BestEffort(agents); got != model.High {
		t.Fatalf("best=%s want H", got)
	}
	mean := MeanPayoffs(agents)
	if !math.IsInf(mean[model.Low], -1) || !math.IsInf(mean[model.Medium], -1) {
		t.Fatalf("unplayed efforts must be -Inf: %v", mean)
	}
}

func TestUpdateDrawsForEveryAgent(t *testing.T) {
	for _, rate := range []float64{0, 0.5, 1} {
		agents := agentsWith(model.High, 0.0, model.Medium, 0.0, model.Low, 0.0, model.High, 0.0)
		stream := rng.New(77)
		SocialLearning{LearningRate: rate}.Update(stream, agents, model.Low, nil)

		ref := rng.New(77)
		for range agents {
			ref.Next()
		}
		if stream.State() != ref.State() {
			t.Fatalf("rate %v: expected one draw per agent", rate)
		}
		if rate == 1 {
			for i, a := range agents {
				if a.Effort != model.Low {
					t.Fatalf("rate 1: agent %d kept %s", i, a.Effort)
				}
			}
		}
		if rate == 0 && agents[0].Effort != model.High {
			t.Fatal("rate 0: agent changed effort")
		}
	}
}

func TestUpdateRunsAfterHookPerAgent(t *testing.T) {
	agents := agentsWith(model.High, 0.0, model.Medium, 0.0)
	var visited int
	SocialLearning{LearningRate: 0.5}.Update(rng.New(1), agents, model.Low, func(*model.Agent) { visited++ })
	if visited != len(agents) {
		t.Fatalf("hook ran %d times want %d", visited, len(agents))
	}
}

func TestSummarizeRound(t *testing.T) {
	agents := agentsWith(model.Medium, 5.0, model.Medium, 5.0, model.High, 0.0, model.High, 10.0)
	got := SummarizeRound(agents)
	want := model.CooperationStats{ShareMedium: 0.5, ShareHigh: 0.5, AveragePayoff: 5, Minimum: model.Medium}
	if got != want {
		t.Fatalf("summary=%+v want %+v", got, want)
	}
}
