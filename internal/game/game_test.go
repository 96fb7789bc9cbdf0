package game

import (
	"testing"

	"evogame/internal/model"
	"evogame/internal/rng"
)

func TestTablesCoverEveryEffort(t *testing.T) {
	wantCost := map[model.Effort]float64{model.Low: 0, model.Medium: 5, model.High: 10}
	wantBenefit := map[model.Effort]float64{model.Low: 0, model.Medium: 10, model.High: 100}
	for _, e := range model.Efforts {
		if got := Cost(e); got != wantCost[e] {
			t.Fatalf("cost(%s)=%v want %v", e, got, wantCost[e])
		}
		if got := Benefit(e); got != wantBenefit[e] {
			t.Fatalf("benefit(%s)=%v want %v", e, got, wantBenefit[e])
		}
	}
}

func TestMinimum(t *testing.T) {
	cases := []struct {
		in   []model.Effort
		want model.Effort
	}{
		{in: []model.Effort{model.High, model.Medium, model.High}, want: model.Medium},
		{in: []model.Effort{model.High, model.Low}, want: model.Low},
		{in: []model.Effort{model.High}, want: model.High},
	}
	for _, tc := range cases {
		if got := Minimum(tc.in); got != tc.want {
			t.Fatalf("Minimum(%v)=%s want %s", tc.in, got, tc.want)
		}
	}
}

func TestPayoffNonIncreasingInOwnEffort(t *testing.T) {
	for _, groupMin := range model.Efforts {
		prev := Payoff(model.Low, groupMin)
		for _, own := range model.Efforts[1:] {
			got := Payoff(own, groupMin)
			if got > prev {
				t.Fatalf("min=%s: payoff(%s)=%v exceeds lower effort payoff %v", groupMin, own, got, prev)
			}
			prev = got
		}
	}
}

func TestScoreGroupsIsPerGroup(t *testing.T) {
	agents := []model.Agent{
		{Effort: model.High},
		{Effort: model.High},
		{Effort: model.Low},
		{Effort: model.Medium},
	}
	ScoreGroups(agents, [][]int{{0, 1}, {2, 3}})
	want := []float64{90, 90, 0, -5}
	for i, w := range want {
		if agents[i].Payoff != w {
			t.Fatalf("agent %d payoff=%v want %v", i, agents[i].Payoff, w)
		}
	}
}

func TestSimilarityBounds(t *testing.T) {
	target := model.Strategy("10110010")
	if got := Similarity(target, target); got != target.Len() {
		t.Fatalf("identical similarity=%d want %d", got, target.Len())
	}
	if got := Similarity("01001101", target); got != 0 {
		t.Fatalf("complement similarity=%d want 0", got)
	}
	if got := Similarity("10110011", target); got != 7 {
		t.Fatalf("one-off similarity=%d want 7", got)
	}
}

func TestRandomStrategyDeterministic(t *testing.T) {
	a := RandomStrategy(rng.New(3), 16)
	b := RandomStrategy(rng.New(3), 16)
	if a != b {
		t.Fatalf("same seed produced %s and %s", a, b)
	}
	if a.Len() != 16 {
		t.Fatalf("length=%d want 16", a.Len())
	}
	for _, c := range []byte(a) {
		if c != '0' && c != '1' {
			t.Fatalf("non-binary symbol %q in %s", c, a)
		}
	}
}
