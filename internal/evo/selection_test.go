package evo

import (
	"testing"

	"evogame/internal/model"
	"evogame/internal/rng"
)

func TestTournamentSelectorConsumesTournamentSizeDraws(t *testing.T) {
	scored := []ScoredStrategy{{"00", 0}, {"01", 1}, {"11", 2}}
	for size := 1; size <= 5; size++ {
		stream := rng.New(17)
		reference := rng.New(17)
		if _, err := (TournamentSelector{TournamentSize: size}).PickParent(stream, scored); err != nil {
			t.Fatalf("pick: %v", err)
		}
		for i := 0; i < size; i++ {
			reference.Next()
		}
		if stream.State() != reference.State() {
			t.Fatalf("size %d: selector consumed a different number of draws", size)
		}
	}
}

func TestTournamentSelectorFirstSeenWinsTies(t *testing.T) {
	scored := []ScoredStrategy{{"a0", 5}, {"a1", 5}, {"a2", 5}, {"a3", 5}}
	for seed := 1; seed < 50; seed++ {
		stream := rng.New(float64(seed))
		replay := rng.New(float64(seed))
		first := scored[replay.NextInt(len(scored))].Strategy

		got, err := (TournamentSelector{TournamentSize: 3}).PickParent(stream, scored)
		if err != nil {
			t.Fatalf("pick: %v", err)
		}
		if got != first {
			t.Fatalf("seed %d: picked %s, want first drawn %s", seed, got, first)
		}
	}
}

func TestTournamentSelectorPrefersFitter(t *testing.T) {
	scored := []ScoredStrategy{{"weak", 0}, {"strong", 9}}
	stream := rng.New(3)
	strong := 0
	for i := 0; i < 200; i++ {
		got, err := (TournamentSelector{TournamentSize: 2}).PickParent(stream, scored)
		if err != nil {
			t.Fatalf("pick: %v", err)
		}
		if got == "strong" {
			strong++
		}
	}
	if strong < 120 {
		t.Fatalf("expected strong parent most of the time, got %d/200", strong)
	}
}

func TestTournamentSelectorValidation(t *testing.T) {
	scored := []ScoredStrategy{{"0", 0}}
	if _, err := (TournamentSelector{TournamentSize: 2}).PickParent(nil, scored); err == nil {
		t.Fatal("expected missing stream error")
	}
	if _, err := (TournamentSelector{TournamentSize: 2}).PickParent(rng.New(1), nil); err == nil {
		t.Fatal("expected empty generation error")
	}
	if _, err := (TournamentSelector{}).PickParent(rng.New(1), scored); err == nil {
		t.Fatal("expected invalid size error")
	}
}

func TestSpliceCutRange(t *testing.T) {
	a := model.Strategy("00000000")
	b := model.Strategy("11111111")
	stream := rng.New(12)
	for i := 0; i < 500; i++ {
		child := Splice(stream, a, b)
		cut := 0
		for cut < len(child) && child[cut] == '0' {
			cut++
		}
		if cut < 1 || cut > len(a)-1 {
			t.Fatalf("cut %d outside [1,%d] in %s", cut, len(a)-1, child)
		}
		if child[:cut] != a[:cut] || child[cut:] != b[cut:] {
			t.Fatalf("child %s is not a prefix/suffix splice", child)
		}
	}
}

func TestSpliceShortStrategySkipsDraw(t *testing.T) {
	stream := rng.New(8)
	if got := Splice(stream, "1", "0"); got != "1" {
		t.Fatalf("splice=%s want 1", got)
	}
	if stream.State() != 8 {
		t.Fatal("length-1 splice consumed a draw")
	}
}

func TestCrossoverRateExtremes(t *testing.T) {
	a := model.Strategy("0000")
	b := model.Strategy("1111")

	never := rng.New(4)
	if got := (SinglePointCrossover{Rate: 0}).Apply(never, a, b); got != a {
		t.Fatalf("rate 0 produced %s", got)
	}
	ref := rng.New(4)
	ref.Next()
	if never.State() != ref.State() {
		t.Fatal("rate 0 must still consume exactly the decision draw")
	}

	always := rng.New(4)
	got := (SinglePointCrossover{Rate: 1}).Apply(always, a, b)
	if got == a || got == b {
		t.Fatalf("rate 1 produced a parent copy %s", got)
	}
	ref.Next()
	if always.State() != ref.State() {
		t.Fatal("crossing over must consume the decision and cut draws")
	}
}

func TestMutationRateExtremes(t *testing.T) {
	s := model.Strategy("0101100")
	stream := rng.New(6)
	if got := (BitFlipMutation{Rate: 0}).Apply(stream, s); got != s {
		t.Fatalf("rate 0 mutated %s to %s", s, got)
	}
	if got := (BitFlipMutation{Rate: 1}).Apply(stream, s); got != "1010011" {
		t.Fatalf("rate 1 produced %s want 1010011", got)
	}
	ref := rng.New(6)
	for i := 0; i < 2*s.Len(); i++ {
		ref.Next()
	}
	if stream.State() != ref.State() {
		t.Fatal("mutation must draw once per symbol")
	}
}
