package engine

import (
	"math"

	"evogame/internal/model"
)

const (
	minArenaPopulation     = 2
	minClassroomPopulation = 4
	minStrategyLength      = 2
	DefaultArenaWidth      = 800
	DefaultArenaHeight     = 500
)

// Validate checks every range constraint before any state changes. The first
// violation is returned as a *ValidationError.
func Validate(p model.Params) error {
	if math.IsNaN(p.Seed) || math.IsInf(p.Seed, 0) {
		return invalid("seed", p.Seed, "must be a finite number")
	}
	switch p.Rule {
	case model.RuleSocial:
		return validateSocial(p)
	case model.RuleGenetic:
		return validateGenetic(p)
	default:
		return invalid("rule", p.Rule, "must be %q or %q", model.RuleSocial, model.RuleGenetic)
	}
}

func validateSocial(p model.Params) error {
	minPop := minClassroomPopulation
	if p.Arena.Enabled {
		minPop = minArenaPopulation
	}
	if p.PopulationSize < minPop {
		return invalid("population_size", p.PopulationSize, "must be >= %d", minPop)
	}
	if !p.GroupSize.All && (p.GroupSize.Size < 1 || p.GroupSize.Size > p.PopulationSize) {
		return invalid("group_size", p.GroupSize, "must be \"all\" or in [1, %d]", p.PopulationSize)
	}
	if !unitInterval(p.LearningRate) {
		return invalid("learning_rate", p.LearningRate, "must be in [0, 1]")
	}
	if p.Rounds < 0 {
		return invalid("rounds", p.Rounds, "must be >= 0")
	}
	if p.Arena.Enabled {
		if !(p.Arena.Width > 2*arenaMargin) {
			return invalid("arena.width", p.Arena.Width, "must be > %d", 2*arenaMargin)
		}
		if !(p.Arena.Height > 2*arenaMargin) {
			return invalid("arena.height", p.Arena.Height, "must be > %d", 2*arenaMargin)
		}
	}
	return nil
}

func validateGenetic(p model.Params) error {
	if p.PopulationSize < 1 {
		return invalid("population_size", p.PopulationSize, "must be >= 1")
	}
	if p.StrategyLength < minStrategyLength {
		return invalid("strategy_length", p.StrategyLength, "must be >= %d", minStrategyLength)
	}
	if p.Generations < 0 {
		return invalid("generations", p.Generations, "must be >= 0")
	}
	lo := min(2, p.PopulationSize)
	if p.TournamentSize < lo || p.TournamentSize > p.PopulationSize {
		return invalid("tournament_size", p.TournamentSize, "must be in [%d, %d]", lo, p.PopulationSize)
	}
	if !unitInterval(p.CrossoverRate) {
		return invalid("crossover_rate", p.CrossoverRate, "must be in [0, 1]")
	}
	if !unitInterval(p.MutationRate) {
		return invalid("mutation_rate", p.MutationRate, "must be in [0, 1]")
	}
	return nil
}

func unitInterval(v float64) bool {
	return v >= 0 && v <= 1
}

// DefaultSocialParams mirrors the classroom defaults of the effort game.
func DefaultSocialParams() model.Params {
	return model.Params{
		Rule:           model.RuleSocial,
		PopulationSize: 60,
		Seed:           42,
		GroupSize:      model.WholePopulation(),
		LearningRate:   0.5,
		Rounds:         30,
	}
}

// DefaultGeneticParams mirrors the defaults of the bitstring game.
func DefaultGeneticParams() model.Params {
	return model.Params{
		Rule:           model.RuleGenetic,
		PopulationSize: 60,
		Seed:           42,
		StrategyLength: 12,
		Generations:    80,
		MutationRate:   0.02,
		TournamentSize: 3,
		CrossoverRate:  0.8,
	}
}

// WithArena enables the moving-agent arena at the default size.
func WithArena(p model.Params) model.Params {
	p.Arena = model.Arena{Enabled: true, Width: DefaultArenaWidth, Height: DefaultArenaHeight}
	return p
}
